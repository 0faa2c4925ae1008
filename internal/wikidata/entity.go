package wikidata

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Well-known property identifiers.
const (
	PropInstanceOf  = "P31"
	PropPublication = "P577"
	PropInception   = "P571"
	PropIMDbID      = "P345"
	PropSteamID     = "P1733"
)

var yearInTime = regexp.MustCompile(`(\d{4})`)

// Entity is a wbgetentities entity with lazily decoded claim values.
type Entity struct {
	ID           string                 `json:"id"`
	Labels       map[string]LangValue   `json:"labels"`
	Descriptions map[string]LangValue   `json:"descriptions"`
	Claims       map[string][]Statement `json:"claims"`
	Missing      *string                `json:"missing,omitempty"`
}

// LangValue is a language-tagged string.
type LangValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Statement is a single claim on an entity.
type Statement struct {
	Mainsnak Snak `json:"mainsnak"`
}

// Snak carries a claim value. Datavalue is nil for "novalue" and
// "somevalue" snaks.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	Datavalue *DataValue `json:"datavalue"`
}

// DataValue holds the raw value; its shape depends on Type.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Label returns the label in lang, or "".
func (e Entity) Label(lang string) string {
	return e.Labels[lang].Value
}

// Description returns the description in lang, or "".
func (e Entity) Description(lang string) string {
	return e.Descriptions[lang].Value
}

// EntityIDs returns the item ids referenced by prop's claims, in claim order.
func (e Entity) EntityIDs(prop string) []string {
	var ids []string
	for _, st := range e.Claims[prop] {
		var v struct {
			ID string `json:"id"`
		}
		if !st.decode(&v) || v.ID == "" {
			continue
		}
		ids = append(ids, v.ID)
	}
	return ids
}

// FirstEntityID returns the item id of prop's first claim, or "".
func (e Entity) FirstEntityID(prop string) string {
	statements := e.Claims[prop]
	if len(statements) == 0 {
		return ""
	}
	var v struct {
		ID string `json:"id"`
	}
	if !statements[0].decode(&v) {
		return ""
	}
	return v.ID
}

// FirstString returns the string value of prop's first claim, or "".
func (e Entity) FirstString(prop string) string {
	statements := e.Claims[prop]
	if len(statements) == 0 {
		return ""
	}
	var v string
	if !statements[0].decode(&v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// FirstYear returns the year of prop's first time claim, or "".
func (e Entity) FirstYear(prop string) string {
	statements := e.Claims[prop]
	if len(statements) == 0 {
		return ""
	}
	var v struct {
		Time string `json:"time"`
	}
	if !statements[0].decode(&v) || v.Time == "" {
		return ""
	}
	m := yearInTime.FindStringSubmatch(v.Time)
	if m == nil {
		return ""
	}
	return m[1]
}

// HasClaim reports whether prop has at least one statement.
func (e Entity) HasClaim(prop string) bool {
	return len(e.Claims[prop]) > 0
}

func (s Statement) decode(dst any) bool {
	if s.Mainsnak.Datavalue == nil || len(s.Mainsnak.Datavalue.Value) == 0 {
		return false
	}
	return json.Unmarshal(s.Mainsnak.Datavalue.Value, dst) == nil
}
