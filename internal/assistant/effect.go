package assistant

import (
	"fmt"
	"net/url"

	"github.com/hray3182/Organizer/internal/models"
)

// Effect is a side effect an Action asks its caller to perform. The
// assistant never performs effects itself; callers switch on the concrete
// type and decide whether and when to run it.
type Effect interface {
	// Describe is a short human-readable summary, used in confirmations.
	Describe() string
	isEffect()
}

// PersistEvent stores Event and schedules its reminder.
type PersistEvent struct {
	Event models.Event
}

// OpenDialer starts a call to Number.
type OpenDialer struct {
	Number string
}

// OpenContacts opens the contact list filtered by Name, or unfiltered when
// Name is empty.
type OpenContacts struct {
	Name string
}

// OpenMap opens a map routed to Destination, or centred on the user when
// Destination is empty.
type OpenMap struct {
	Destination string
}

// OpenBrowser opens URL, a web search for Query.
type OpenBrowser struct {
	Query string
	URL   string
}

func (e PersistEvent) Describe() string {
	if e.Event.Date == models.DailyDate {
		return fmt.Sprintf("Guardar «%s» todos los días a las %s", e.Event.Title, e.Event.Time)
	}
	return fmt.Sprintf("Guardar «%s» el %s a las %s", e.Event.Title, e.Event.Date, e.Event.Time)
}

func (e OpenDialer) Describe() string { return "Llamar al " + e.Number }

func (e OpenContacts) Describe() string {
	if e.Name == "" {
		return "Abrir contactos"
	}
	return "Buscar a " + e.Name + " en contactos"
}

func (e OpenMap) Describe() string {
	if e.Destination == "" {
		return "Abrir el mapa"
	}
	return "Abrir el mapa hacia " + e.Destination
}

func (e OpenBrowser) Describe() string { return "Buscar «" + e.Query + "» en internet" }

// DialURL is the tel: link for the number.
func (e OpenDialer) DialURL() string { return "tel:" + e.Number }

// MapURL is a Google Maps link for the destination.
func (e OpenMap) MapURL() string {
	if e.Destination == "" {
		return "https://www.google.com/maps"
	}
	return "https://www.google.com/maps/dir/?api=1&destination=" + url.QueryEscape(e.Destination)
}

// SearchURL returns the web search link for query.
func SearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func (PersistEvent) isEffect() {}
func (OpenDialer) isEffect()   {}
func (OpenContacts) isEffect() {}
func (OpenMap) isEffect()      {}
func (OpenBrowser) isEffect()  {}
