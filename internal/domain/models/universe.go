package models

// Universe is a named list of symbols supplied by configuration.
type Universe struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Symbols []string          `json:"symbols"`
	Names   map[string]string `json:"-"`
}
