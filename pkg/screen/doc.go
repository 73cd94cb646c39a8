// Package screen implements the per-screen state container (§4.4) and the
// screen-module capability dispatcher (§4.5).
//
// A screen module is any type implementing Module (Schema() is the only
// required method). Lifecycle hooks are expressed as small optional
// interfaces — Mounter, EventHandler, ParamsHandler, InfoHandler,
// Subscriber, Renderer — following the same "ask, don't assume" pattern as
// io.ReaderFrom/io.WriterTo in the standard library: a module that doesn't
// implement one just gets the dispatcher's documented default behavior.
package screen
