package formdesigner

import (
	"io/fs"

	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
)

// RuntimeAssetsFS exposes the stylesheet and the browser runtime that
// forwards control events to a live canvas session.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formdesigner.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return html.AssetsFS()
}
