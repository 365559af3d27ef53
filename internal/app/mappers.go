package app

import (
	"math"
	"strconv"
	"strings"

	"pethotel/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Partner feeds disagree on field names; each logical field lists the paths
// seen in the wild, most common first.

var hotelAliases = map[string][]string{
	"name":        {"name", "hotel_name", "property_name", "title"},
	"city":        {"city", "address.city", "location.city"},
	"address":     {"address", "address.line", "address1", "full_address", "location.address", "street_address"},
	"description": {"description", "summary", "about"},
	"phone":       {"phone", "contact.phone", "phone_number"},
}

var roomAliases = map[string][]string{
	"name":        {"name", "room_name", "title", "type"},
	"price":       {"price_per_night", "nightly_rate", "price", "rate.nightly"},
	"max_pets":    {"max_pets", "capacity", "pet_capacity", "max_occupancy"},
	"description": {"description", "summary"},
}

var serviceAliases = map[string][]string{
	"name":  {"name", "service_name", "title"},
	"price": {"price", "cost", "fee"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstNumberAlias: first numeric value for a named alias set. JSON numbers
// decode as float64; feeds occasionally quote them.
func firstNumberAlias(m map[string]any, aliases map[string][]string, key string) (float64, bool) {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func mapList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// cents converts a feed amount (major units, possibly fractional) to minor units.
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

/********** mapping **********/

func mapImportedProperty(ref string, p map[string]any) (domain.Hotel, []domain.Room, []domain.Service) {
	h := domain.Hotel{
		Name:        firstNonEmptyAlias(p, hotelAliases, "name"),
		City:        ptrStr(firstNonEmptyAlias(p, hotelAliases, "city")),
		Address:     ptrStr(firstNonEmptyAlias(p, hotelAliases, "address")),
		Description: ptrStr(firstNonEmptyAlias(p, hotelAliases, "description")),
		Phone:       ptrStr(firstNonEmptyAlias(p, hotelAliases, "phone")),
		Images:      strList(lookupAny(p, "images")),
		SourceRef:   &ref,
	}

	var rooms []domain.Room
	for _, rm := range mapList(lookupAny(p, "rooms")) {
		name := firstNonEmptyAlias(rm, roomAliases, "name")
		price, okPrice := firstNumberAlias(rm, roomAliases, "price")
		pets, okPets := firstNumberAlias(rm, roomAliases, "max_pets")
		if name == "" || !okPrice || !okPets || pets < 1 {
			continue // unpriceable or capacity-less rooms are unusable
		}
		rooms = append(rooms, domain.Room{
			Name:          name,
			PricePerNight: cents(price),
			MaxPets:       int(pets),
			Description:   ptrStr(firstNonEmptyAlias(rm, roomAliases, "description")),
			Images:        strList(lookupAny(rm, "images")),
		})
	}

	var services []domain.Service
	for _, sv := range mapList(lookupAny(p, "services")) {
		name := firstNonEmptyAlias(sv, serviceAliases, "name")
		price, ok := firstNumberAlias(sv, serviceAliases, "price")
		if name == "" || !ok || price < 0 {
			continue
		}
		services = append(services, domain.Service{Name: name, Price: cents(price)})
	}

	return h, rooms, services
}
