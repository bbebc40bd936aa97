// Package http provides the request and JSON response helpers used by the
// container diagnostics routes.
//
//	req := gohttp.NewRequest(r)
//	name := req.RouteParam("name")
//	opts := req.QueryMap()
//
//	res := gohttp.NewResponse(w)
//	res.Success(names)           // 200 {"data": [...]}
//	res.NotFound(err.Error())    // 404 {"message": "..."}
//	res.ServerError(err.Error()) // 500 {"message": "..."}
package http
