package routerhelper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on a shared httprouter under a common prefix.
type RouteGroup struct {
	r      *httprouter.Router
	prefix string
}

func NewRouteGroup(r *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{r: r, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{r: g.r, prefix: g.subPath(prefix)}
}

func (g *RouteGroup) subPath(p string) string {
	return path.Join(g.prefix, p)
}

func (g *RouteGroup) Handle(method, p string, handle httprouter.Handle) {
	g.r.Handle(method, g.subPath(p), handle)
}

func (g *RouteGroup) GET(p string, handle httprouter.Handle) {
	g.Handle(http.MethodGet, p, handle)
}

func (g *RouteGroup) POST(p string, handle httprouter.Handle) {
	g.Handle(http.MethodPost, p, handle)
}
