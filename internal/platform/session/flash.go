package session

import "net/http"

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a message for the next rendered page.
func (s *State) AddFlash(category, message string) {
	switch category {
	case FlashSuccess, FlashInfo, FlashWarning, FlashDanger:
	default:
		category = FlashInfo
	}
	s.flashes = append(s.flashes, Flash{Category: category, Message: message})
}

// TakeFlashes hands every queued flash to the caller exactly once and
// expires the flash cookie if the request carried one.
func (m *Manager) TakeFlashes(w http.ResponseWriter, st *State) []Flash {
	flashes := st.flashes
	st.flashes = nil
	if st.flashCookie {
		m.clear(w, FlashCookie)
		st.flashCookie = false
	}
	return flashes
}

// SaveFlashes persists queued flashes into the flash cookie so they survive
// a redirect. It must run before the response header is written.
func (m *Manager) SaveFlashes(w http.ResponseWriter, st *State) error {
	if len(st.flashes) == 0 {
		return nil
	}
	value, err := m.EncodeFlashes(st.flashes)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	st.flashCookie = true
	return nil
}
