package feed

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

type requisitionsResponse struct {
	Items []struct {
		RequisitionList []requisition `json:"requisitionList"`
	} `json:"items"`
}

type requisition struct {
	ID               flexString `json:"Id"`
	Title            string     `json:"Title"`
	PostedDate       string     `json:"PostedDate"`
	ShortDescription string     `json:"ShortDescriptionStr"`
	PrimaryLocation  string     `json:"PrimaryLocation"`
	LocationCountry  string     `json:"PrimaryLocationCountry"`
}

func (r requisition) missingFields() []string {
	var missing []string
	if r.ID == "" {
		missing = append(missing, "Id")
	}
	if r.Title == "" {
		missing = append(missing, "Title")
	}
	if r.PostedDate == "" {
		missing = append(missing, "PostedDate")
	}
	return missing
}

func (r requisition) location() string {
	return titleCase(r.PrimaryLocation) + " (" + strings.ToUpper(r.LocationCountry) + ")"
}

// flexString accepts both "123" and 123, the upstream is not consistent about ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*f = flexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*f = flexString(num.String())
	return nil
}

// titleCase upper-cases the first letter of every word and lower-cases the rest,
// "NAIROBI, kenya" -> "Nairobi, Kenya".
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if prevLetter {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return sb.String()
}
