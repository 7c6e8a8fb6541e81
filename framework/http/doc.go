// Package http provides request and response helpers for handlers served by
// the framework router.
//
// Handlers run inside a per-request container scope, so a Request can
// resolve request-scoped dependencies directly:
//
//	func show(w http.ResponseWriter, r *http.Request) {
//	    req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
//	    audit, err := gohttp.Resolve(req, AuditToken)
//	    if err != nil {
//	        res.ContainerError(err, cfg.App.Debug)
//	        return
//	    }
//	    res.Success(audit.Summary())
//	}
//
// ContainerError maps resolution failures to a 500; the diagnostic message
// is only exposed in debug mode.
package http
