package report

import (
	"fmt"
	"strings"

	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

// SplitPaths splits a comma-separated path list, dropping blanks
func SplitPaths(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ParseUpload parses "ISSUER=a.pdf,b.pdf". The issuer is matched against the
// registry without regard to case.
func ParseUpload(registry *schema.Registry, spec string) (Upload, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok {
		return Upload{}, fmt.Errorf("invalid upload %q: want ISSUER=path[,path...]", spec)
	}

	issuer, err := registry.ParseIssuer(name)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Issuer: issuer, Paths: SplitPaths(list)}, nil
}

// MergeUploads combines uploads for the same issuer, keeping the order in
// which issuers first appear and the order of their paths.
func MergeUploads(uploads []Upload) []Upload {
	index := make(map[schema.Issuer]int, len(uploads))
	var merged []Upload
	for _, u := range uploads {
		if i, ok := index[u.Issuer]; ok {
			merged[i].Paths = append(merged[i].Paths, u.Paths...)
			continue
		}
		index[u.Issuer] = len(merged)
		merged = append(merged, Upload{Issuer: u.Issuer, Paths: append([]string(nil), u.Paths...)})
	}
	return merged
}
