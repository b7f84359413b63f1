package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/stevenscomputer/site/internal/model"
	"github.com/tidwall/gjson"
)

// Accepted request keys per field, highest priority first. The localized
// names (nama, pesan) come from the Indonesian form markup.
var (
	NameKeys    = []string{"name", "nama"}
	EmailKeys   = []string{"email"}
	PhoneKeys   = []string{"phone", "tel"}
	MessageKeys = []string{"message", "pesan", "note"}
)

const (
	maxNameLength    = 255
	maxEmailLength   = 255
	maxPhoneLength   = 64
	maxMessageLength = 5000
)

// ParseSubmission resolves a contact message from a raw JSON body. An empty
// body is treated as an empty object. Only structural problems are reported
// here; required fields are checked by Validate.
func ParseSubmission(body []byte) (*model.ContactMessage, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) {
		return nil, &ValidationError{Reason: ReasonInvalidJSON}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &ValidationError{Reason: ReasonInvalidJSON}
	}

	return &model.ContactMessage{
		Name:    firstValue(root, NameKeys),
		Email:   firstValue(root, EmailKeys),
		Phone:   firstValue(root, PhoneKeys),
		Message: firstValue(root, MessageKeys),
	}, nil
}

// ParseFormSubmission resolves a contact message from an
// application/x-www-form-urlencoded body, the shape a plain HTML form posts.
// Key priority matches ParseSubmission.
func ParseFormSubmission(body []byte) (*model.ContactMessage, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &ValidationError{Reason: ReasonInvalidForm}
	}
	return &model.ContactMessage{
		Name:    firstFormValue(values, NameKeys),
		Email:   firstFormValue(values, EmailKeys),
		Phone:   firstFormValue(values, PhoneKeys),
		Message: firstFormValue(values, MessageKeys),
	}, nil
}

func firstFormValue(values url.Values, keys []string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// firstValue returns the first non-empty string or number among keys.
// Missing, null, boolean and structured values are skipped.
func firstValue(root gjson.Result, keys []string) string {
	for _, key := range keys {
		res := root.Get(gjson.Escape(key))
		switch res.Type {
		case gjson.String, gjson.Number:
			if v := strings.TrimSpace(res.String()); v != "" {
				return v
			}
		}
	}
	return ""
}

// Validate enforces the persistence invariant: name and email present,
// every field valid UTF-8 and within its column length.
func Validate(msg *model.ContactMessage) error {
	if msg.Name == "" || msg.Email == "" {
		return &ValidationError{Reason: ReasonRequired}
	}
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"name", msg.Name, maxNameLength},
		{"email", msg.Email, maxEmailLength},
		{"phone", msg.Phone, maxPhoneLength},
		{"message", msg.Message, maxMessageLength},
	}
	for _, l := range limits {
		if !utf8.ValidString(l.value) {
			return &ValidationError{Reason: ReasonEncoding + ": " + l.field}
		}
		if utf8.RuneCountInString(l.value) > l.max {
			return &ValidationError{Reason: ReasonTooLong + ": " + l.field}
		}
	}
	return nil
}
