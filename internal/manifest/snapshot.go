package manifest

import _ "embed"

// bundledSnapshot ships a copy of the manifest inside the binary so a
// first run with no network and no cache can still resolve identifiers.
//
//go:embed snapshot.json
var bundledSnapshot []byte
