package assets

import "embed"

// AssetsFS contains the static files served under /assets/.
//
//go:embed css
var AssetsFS embed.FS
