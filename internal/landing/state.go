package landing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names carrying the page state.
const (
	ParamService  = "service"
	ParamContact  = "contact"
	ParamDemo     = "demo"
	ParamName     = "name"
	ParamEmail    = "email"
	ParamSize     = "size"
	ParamInterest = "interest"
)

// ContactForm is the "Get Started" form. Its values only decide what the demo
// modal shows; they are never submitted anywhere.
type ContactForm struct {
	Name         string
	Email        string
	BusinessSize string
	InterestedIn string
}

// DefaultContactForm returns the form as first shown.
func DefaultContactForm() ContactForm {
	return ContactForm{
		BusinessSize: businessSizes[0],
		InterestedIn: ForecastingService,
	}
}

// Normalize trims the free-text fields and replaces unknown selector values
// with the defaults.
func (f ContactForm) Normalize() ContactForm {
	def := DefaultContactForm()
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if !contains(businessSizes, f.BusinessSize) {
		f.BusinessSize = def.BusinessSize
	}
	known := false
	for _, s := range services {
		if s.Title == f.InterestedIn {
			known = true
			break
		}
	}
	if !known {
		f.InterestedIn = def.InterestedIn
	}
	return f
}

// PageState is the set of UI flags that drive conditional rendering.
type PageState struct {
	ActiveService int // 0 when no card is expanded
	ShowContact   bool
	ShowDemo      bool
	Contact       ContactForm
}

// NewPageState returns the state of a fresh page view.
func NewPageState() PageState {
	return PageState{Contact: DefaultContactForm()}
}

// ToggleService expands the card with the given ID, or collapses it if it is
// already expanded.
func (s *PageState) ToggleService(id int) {
	if s.ActiveService == id {
		s.ActiveService = 0
		return
	}
	s.ActiveService = id
}

// IsActive reports whether the card with the given ID is expanded.
func (s PageState) IsActive(id int) bool {
	return s.ActiveService != 0 && s.ActiveService == id
}

// ToggleContact opens or closes the contact modal.
func (s *PageState) ToggleContact() {
	s.ShowContact = !s.ShowContact
}

// StartDemo closes the contact modal and opens the demo modal.
func (s *PageState) StartDemo() {
	s.ShowContact = false
	s.ShowDemo = true
}

// CloseDemo closes the demo modal.
func (s *PageState) CloseDemo() {
	s.ShowDemo = false
}

// DemoTitle is the heading of the demo modal for the chosen interest.
func (s PageState) DemoTitle() string {
	if s.Contact.InterestedIn == ForecastingService {
		return "AI Sales Forecasting Demo"
	}
	return s.Contact.InterestedIn + " Demo"
}

// StateFromValues reads the page state from query parameters. Unknown or
// malformed values fall back to the defaults.
func StateFromValues(v url.Values) PageState {
	s := NewPageState()
	if id, err := strconv.Atoi(v.Get(ParamService)); err == nil {
		if _, ok := FindService(id); ok {
			s.ActiveService = id
		}
	}
	s.ShowContact = isTrue(v.Get(ParamContact))
	s.ShowDemo = isTrue(v.Get(ParamDemo))
	s.Contact = ContactForm{
		Name:         v.Get(ParamName),
		Email:        v.Get(ParamEmail),
		BusinessSize: v.Get(ParamSize),
		InterestedIn: v.Get(ParamInterest),
	}.Normalize()
	return s
}

// Values encodes the state as query parameters, omitting defaults.
func (s PageState) Values() url.Values {
	v := url.Values{}
	def := DefaultContactForm()
	if s.ActiveService != 0 {
		v.Set(ParamService, strconv.Itoa(s.ActiveService))
	}
	if s.ShowContact {
		v.Set(ParamContact, "1")
	}
	if s.ShowDemo {
		v.Set(ParamDemo, "1")
	}
	if s.Contact.Name != "" {
		v.Set(ParamName, s.Contact.Name)
	}
	if s.Contact.Email != "" {
		v.Set(ParamEmail, s.Contact.Email)
	}
	if s.Contact.BusinessSize != "" && s.Contact.BusinessSize != def.BusinessSize {
		v.Set(ParamSize, s.Contact.BusinessSize)
	}
	if s.Contact.InterestedIn != "" && s.Contact.InterestedIn != def.InterestedIn {
		v.Set(ParamInterest, s.Contact.InterestedIn)
	}
	return v
}

// URL returns the page link for this state.
func (s PageState) URL() string {
	encoded := s.Values().Encode()
	if encoded == "" {
		return "/"
	}
	return "/?" + encoded
}

// ServiceLink is the link of a service card's "Learn more"/"Show less" toggle.
func (s PageState) ServiceLink(id int) string {
	s.ToggleService(id)
	return s.URL()
}

// ContactLink is the link that opens or closes the contact modal.
func (s PageState) ContactLink() string {
	s.ToggleContact()
	return s.URL()
}

// CloseDemoLink is the link of the demo modal's close button.
func (s PageState) CloseDemoLink() string {
	s.CloseDemo()
	return s.URL()
}

// Field is a hidden form input.
type Field struct {
	Name  string
	Value string
}

// HiddenFields returns the state as hidden inputs, sorted by name, so forms
// submitted with GET keep the rest of the page as it was.
func (s PageState) HiddenFields(exclude ...string) []Field {
	v := s.Values()
	for _, name := range exclude {
		v.Del(name)
	}
	fields := make([]Field, 0, len(v))
	for name := range v {
		fields = append(fields, Field{Name: name, Value: v.Get(name)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

func isTrue(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
