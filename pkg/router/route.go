package router

// RouteDef is a single entry in the static route table (§4.6). It is
// produced by whatever route DSL or codegen the host application uses; the
// router package only consumes the result.
type RouteDef struct {
	Name          string
	Path          string
	Key           string
	ScreenModule  string
	Action        string
	ScreenSession string
}

// Entry is one frame of a Nav stack: the route name, its resolved params,
// and an optional action qualifier carried from the route definition or a
// navigate call.
type Entry struct {
	Name   string
	Params map[string]string
	Action string
}

func (e Entry) clone() Entry {
	params := make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		params[k] = v
	}
	return Entry{Name: e.Name, Params: params, Action: e.Action}
}
