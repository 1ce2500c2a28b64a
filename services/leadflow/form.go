// Package leadflow models the multi-step consultation form: field entry,
// client-side validation, the consent sheet and a single submission.
package leadflow

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^010-\d{4}-\d{4}$`)

// Field names accepted by Flow.SetField
const (
	FieldName   = "name"
	FieldPhone  = "phone"
	FieldRegion = "region"
	FieldMemo   = "memo"
)

// Form holds the values typed so far
type Form struct {
	Name   string
	Phone  string
	Region string
	Memo   string
}

// Step1Valid: the first page needs a phone number or a region
func (f Form) Step1Valid() bool {
	return strings.TrimSpace(f.Phone) != "" || strings.TrimSpace(f.Region) != ""
}

// Step2Valid: the second page needs both name and phone
func (f Form) Step2Valid() bool {
	return strings.TrimSpace(f.Name) != "" && strings.TrimSpace(f.Phone) != ""
}

// ValidPhone reports whether phone is a formatted Korean mobile number
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// FormatPhone keeps the digits of input and groups them as 010-xxxx-xxxx.
// Digits beyond the eleventh are dropped.
func FormatPhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 11 {
		digits = digits[:11]
	}

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 7:
		return digits[:3] + "-" + digits[3:]
	default:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	}
}

// ConsentKey names one checkbox of the consent sheet
type ConsentKey string

const (
	ConsentCollection ConsentKey = "personalDataCollection"
	ConsentThirdParty ConsentKey = "personalDataThirdParty"
	ConsentCompany    ConsentKey = "personalDataCompany"
)

// Consent is the three required acknowledgements
type Consent struct {
	PersonalDataCollection bool `json:"personalDataCollection"`
	PersonalDataThirdParty bool `json:"personalDataThirdParty"`
	PersonalDataCompany    bool `json:"personalDataCompany"`
}

// AllChecked gates submission
func (c Consent) AllChecked() bool {
	return c.PersonalDataCollection && c.PersonalDataThirdParty && c.PersonalDataCompany
}

// Set changes one checkbox; unknown keys are ignored
func (c *Consent) Set(key ConsentKey, value bool) {
	switch key {
	case ConsentCollection:
		c.PersonalDataCollection = value
	case ConsentThirdParty:
		c.PersonalDataThirdParty = value
	case ConsentCompany:
		c.PersonalDataCompany = value
	}
}

// ToggleAll implements the "agree to all" row: it checks every box unless all
// are already checked, in which case it clears them.
func (c *Consent) ToggleAll() {
	value := !c.AllChecked()
	c.PersonalDataCollection = value
	c.PersonalDataThirdParty = value
	c.PersonalDataCompany = value
}
