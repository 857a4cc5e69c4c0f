// Package model defines the declarative form-design schema shared by the
// canvas, property panel, validation engine, cascade propagator and
// renderers. A Design holds ordered Widgets; form widgets hold ordered Fields;
// each Field carries a type tag plus a typed Props variant so attributes that
// only make sense for one family of field types (rating bounds, masks,
// currency symbols, option lists) cannot leak onto unrelated types.
//
// Fields serialise to the flat design payload shape (`min`, `maxRating`,
// `cascadeSource`, `options`, ...) so stored designs stay readable and
// interchangeable with browser clients; the typed variant is rebuilt from the
// type tag on decode.
//
// Mutations go through FieldPatch/WidgetPatch: patches are validated before
// they are merged and unset members never touch the target.
package model
