// Package httpd is a small HTTP/1.x origin server for static files,
// built directly on net.Conn without a library HTTP stack.
//
// Highlights
//   - Methods: GET and HEAD only; HTTP/1.0 and HTTP/1.1 request lines.
//   - One request per connection: every response carries
//     "Connection: close" and the socket is closed after it is sent.
//   - A pipeline of Stages turns raw request text into a response head:
//     RequestParser, ContentResolver, HeaderAssembler, ConnectionPolicy,
//     Serializer. Any stage can be replaced through Server.Pipeline.
//   - Reads and writes are bounded by deadlines that tear down the
//     connection when they expire; only that connection is affected.
//   - Files never escape Settings.Root: decoded paths are joined to the
//     root and rejected unless the result stays under it.
//   - Observability: plug-in obs.Logger and obs.Meter.
//
// Quick start:
//
//	st, err := (httpd.Settings{Root: "/srv/www", Port: 8080}).Normalize()
//	if err != nil { log.Fatal(err) }
//	s := &httpd.Server{Settings: st}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpd
