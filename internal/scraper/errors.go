package scraper

import "errors"

// Adapter failures fall into two buckets. Fetch errors are transient
// network conditions worth retrying next cycle; parse errors mean the
// upstream payload or markup changed shape and the source config needs
// attention.
var (
	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("parse failed")
)
