package presenter

import _ "embed"

var (
	//go:embed static/page.css
	pageStyle string

	//go:embed static/page.js
	pageScript string
)
