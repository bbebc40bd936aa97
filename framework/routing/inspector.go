package routing

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
)

// Lister is implemented by adapters that can enumerate their services.
type Lister interface {
	Names() []string
}

// Inspect mounts read-only container diagnostics on r:
//
//	GET /services         → {"data": ["config", "logger", ...]}
//	GET /services/{name}  → {"data": {"name": "logger", "type": "*main.FileLogger"}}
//
// Query parameters on /services/{name} are passed to Build as options.
// A missing service answers 404; any other build failure answers 500.
func Inspect(r *Router, a adapter.ContainerAdapter, names Lister) {
	r.Prefix("/services", func(sr *Router) {
		sr.Get("/", func(w http.ResponseWriter, req *http.Request) {
			gohttp.NewResponse(w).Success(names.Names())
		})

		sr.Get("/{name}", func(w http.ResponseWriter, raw *http.Request) {
			req := gohttp.NewRequest(raw)
			res := gohttp.NewResponse(w)
			name := req.RouteParam("name")

			opts := container.Options{}
			for k, v := range req.QueryMap() {
				opts[k] = v
			}

			svc, err := a.Build(name, opts)
			switch {
			case errors.Is(err, adapter.ErrNotFound):
				res.NotFound(err.Error())
			case err != nil:
				res.ServerError(err.Error())
			default:
				res.Success(map[string]string{
					"name": name,
					"type": fmt.Sprintf("%T", svc),
				})
			}
		})
	})
}
