package http

import (
	"net/http"
	"time"
)

// Year bounds offered by the view selector.
const (
	MinYear = 2000
	MaxYear = 2100
)

var templateFuncs = map[string]any{
	"seq": func(from, to int) []int {
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
	"monthName": func(m int) string { return time.Month(m).String() },
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil || s.svc == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}

	now := s.now()
	data := struct {
		Today      string
		Year       int
		Month      int
		MinYear    int
		MaxYear    int
		Categories []string
	}{
		Today:      now.Format("2006-01-02"),
		Year:       now.Year(),
		Month:      int(now.Month()),
		MinYear:    MinYear,
		MaxYear:    MaxYear,
		Categories: s.svc.Categories(r.Context()),
	}
	s.render(w, r, "index.html", data)
}
