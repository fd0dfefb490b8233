package httpd

import "time"

// Stage is one step of turning a Request into a Response. Protocol and
// resolution problems are recorded on resp; a returned error means the
// stage itself broke, and the connection is dropped without a reply.
type Stage interface {
	Apply(req *Request, resp *Response) error
}

type StageFunc func(req *Request, resp *Response) error

func (f StageFunc) Apply(req *Request, resp *Response) error {
	return f(req, resp)
}

// DefaultPipeline is the chain a Server runs when Pipeline is nil.
func DefaultPipeline(st *Settings, mime MIMETable) []Stage {
	if mime == nil {
		mime = DefaultMIMETypes()
	}
	return []Stage{
		RequestParser{},
		ContentResolver{Settings: st, MIMETypes: mime},
		HeaderAssembler{ServerName: st.ServerName, Now: time.Now},
		ConnectionPolicy{},
		Serializer{},
	}
}
