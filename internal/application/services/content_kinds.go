package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/utils"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// contentKind describes how one family of AI answers is prompted, shaped and decoded.
type contentKind struct {
	kind       content.Kind
	schemaName string
	schema     *jsonschema.Definition
	prompt     func(key content.Key) string
	decode     func(raw string) (json.RawMessage, error)
}

func str(desc string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: desc}
}

func object(props map[string]jsonschema.Definition, required ...string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

func arrayOf(item jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Array, Items: &item}
}

var serviceListingSchema = object(map[string]jsonschema.Definition{
	"services": arrayOf(object(map[string]jsonschema.Definition{
		"name":         str("business name"),
		"category":     str("service category, e.g. veterinarian, groomer, boarding"),
		"address":      str("street address"),
		"phone":        str("contact phone number"),
		"website":      str("website URL"),
		"openingHours": str("opening hours"),
		"rating":       {Type: jsonschema.Number, Description: "average rating from 0 to 5"},
		"reviewCount":  {Type: jsonschema.Integer, Description: "number of reviews"},
		"imageUrl":     str("image URL"),
		"description":  str("brief description of services offered"),
		"animals":      arrayOf(str("animal type served")),
	}, "name", "category", "address", "animals")),
}, "services")

var petCareGuideSchema = object(map[string]jsonschema.Definition{
	"summary": str("short overview of the topic"),
	"sections": arrayOf(object(map[string]jsonschema.Definition{
		"title": str("section heading"),
		"body":  str("section text"),
	}, "title", "body")),
	"tips": arrayOf(str("practical tip")),
	"resources": arrayOf(object(map[string]jsonschema.Definition{
		"name":        str("resource or service name"),
		"url":         str("link"),
		"description": str("what the resource offers"),
	}, "name")),
}, "summary", "sections", "tips", "resources")

var servicesKind = contentKind{
	kind:       content.KindServices,
	schemaName: "pet_services",
	schema:     &serviceListingSchema,
	prompt:     servicesPrompt,
	decode:     decodeStrict[content.ServiceListing],
}

var petCareKind = contentKind{
	kind:       content.KindPetCare,
	schemaName: "pet_care_guide",
	schema:     &petCareGuideSchema,
	prompt:     petCarePrompt,
	decode:     decodeStrict[content.PetCareGuide],
}

// servicesPrompt keys on (city, category).
func servicesPrompt(key content.Key) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please provide a comprehensive list of pet services in %s", key.Location)
	if key.Topic != content.AllCategories {
		fmt.Fprintf(&b, " specifically focused on %s services", key.Topic)
	}
	b.WriteString(". For each service, include the name, address, contact information, website (if available), " +
		"hours of operation, types of animals served, and a brief description of services offered. " +
		"Format the information clearly and concisely. Please ensure all information is accurate and up-to-date.")
	return b.String()
}

// petCarePrompt keys on (city, topic).
func petCarePrompt(key content.Key) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please provide detailed information about %s for pet owners", key.Topic)
	if key.Location != content.GeneralLocation {
		fmt.Fprintf(&b, " in %s", key.Location)
	}
	b.WriteString(". Include practical advice, best practices, common concerns, and any location-specific " +
		"considerations. If there are multiple perspectives or approaches, please present them fairly. " +
		"If there are relevant resources or services pet owners should know about, please mention those as well.")
	return b.String()
}

// decodeStrict parses raw as exactly one T, rejecting unknown fields and
// trailing data, validates it and returns its canonical encoding.
func decodeStrict[T any](raw string) (json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var v T
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON document")
	}
	if err := utils.ValidateStruct(v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
