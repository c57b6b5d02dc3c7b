package http

import (
	"context"
	"html/template"
	"net/http"

	applog "sure/internal/log"
	"sure/internal/releasenotes"
)

type settingsPage struct {
	Title  string
	Active string
}

func (s *Server) latestRelease(ctx context.Context) releasenotes.Record {
	cctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	logger := applog.FromContext(ctx).WithComponent(applog.ComponentReleaseNotes)
	rec, err := releasenotes.LatestOrFallback(cctx, s.releases, s.now())
	if err != nil {
		logger.WarnContext(ctx, "Release notes unavailable, showing fallback", applog.NewFields().
			WithOperation(applog.OpFetch).
			WithError(err).
			ToSlice()...)
	}
	logger.DebugContext(ctx, "Release notes loaded",
		applog.FieldOperation, applog.OpFetch,
		applog.FieldRelease, rec.Name)
	return rec
}

// handleChangelog renders the latest release notes in the settings layout
func (s *Server) handleChangelog(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}
	rec := s.latestRelease(r.Context())
	s.render(w, r, "changelog.html", struct {
		settingsPage
		Release releasenotes.Record
		// Body is rendered HTML: either goldmark output, which drops raw
		// HTML, or the fixed fallback text.
		Body template.HTML
	}{
		settingsPage: settingsPage{Title: "What's new", Active: "changelog"},
		Release:      rec,
		Body:         template.HTML(rec.Body),
	})
}

// handleChangelogData returns the latest release notes as JSON
func (s *Server) handleChangelogData(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, s.latestRelease(r.Context()))
}

// handleFeedback renders the static feedback page
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}
	s.render(w, r, "feedback.html", settingsPage{Title: "Feedback", Active: "feedback"})
}
