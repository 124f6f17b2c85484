// Package storage writes a completed AuditReport to disk. Ground: teacher's
// internal/storage.Sink (the report-to-disk writer shape), adapted here
// from markdown-doc output to JSON audit-report output, using the same
// pkg/fileutil + pkg/hashutil helpers the teacher's sink uses for path
// safety and content fingerprinting.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/seoauditor/engine/internal/report"
	"github.com/seoauditor/engine/pkg/failure"
	"github.com/seoauditor/engine/pkg/fileutil"
	"github.com/seoauditor/engine/pkg/hashutil"
)

// Sink writes AuditReports to a directory on disk.
type Sink struct {
	dir string
}

func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Write serializes rep as indented JSON and writes it to a deterministic
// filename derived from the base URL and the content hash, so repeated
// audits of the same site don't silently overwrite each other's history.
func (s *Sink) Write(rep report.AuditReport) (string, failure.ClassifiedError) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", &fileutil.FileError{Message: err.Error(), Cause: fileutil.ErrCausePathError}
	}

	sum, err := hashutil.HashBytes(data, hashutil.AlgoBLAKE3)
	if err != nil {
		return "", &fileutil.FileError{Message: err.Error(), Cause: fileutil.ErrCausePathError}
	}

	name := fmt.Sprintf("%s-%s.json", sanitizeHost(rep.AuditStats.SiteOverview.BaseURL), sum[:12])
	path := filepath.Join(s.dir, name)

	if werr := fileutil.WriteFile(path, data); werr != nil {
		return "", werr
	}
	return path, nil
}

func sanitizeHost(baseURL string) string {
	out := make([]rune, 0, len(baseURL))
	for _, r := range baseURL {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
