// Package normalize canonicalizes the free-text fields of lead and marketing
// rows. Every aggregate downstream consumes only canonical values, so the
// keyword matching lives here once instead of being repeated per chart.
package normalize

import (
	"strings"

	"github.com/dcastano/leadboard/internal/models"
)

// Agent trims the raw agent field, expands the known two-letter codes and
// title-cases everything else. An empty field stays empty: the aggregator
// applies its own "Sin Agente" label, unlike provinces which get a sentinel
// here.
func Agent(raw string) string {
	a := strings.TrimSpace(raw)
	if a == "" {
		return ""
	}
	switch strings.ToUpper(a) {
	case "PM":
		return "Paola"
	case "IC":
		return "Irina"
	}
	r := []rune(a)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// Platform maps the channel codes used by the logging sheet onto the fixed
// enumeration. Unknown or empty input is "Otro".
func Platform(raw string) models.Platform {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wp", "whatsapp":
		return models.PlatformWhatsApp
	case "ig", "instagram":
		return models.PlatformInstagram
	case "fb", "facebook":
		return models.PlatformFacebook
	}
	return models.PlatformOther
}

// Province trims only; an empty province becomes the "Sin Datos" sentinel.
func Province(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return models.ProvinceNoData
	}
	return p
}

// Visit normalizes the VISITAS column. Anything that is not one of the three
// known values counts as no visit.
func Visit(raw string) models.VisitType {
	switch Fold(raw) {
	case "showroom":
		return models.VisitShowroom
	case "fabrica":
		return models.VisitFactory
	case "ambas":
		return models.VisitBoth
	}
	return models.VisitNone
}

// Stage classifies an event label into the highest funnel stage it reached.
// The order matters: "venta" wins over "oferta" wins over "cotizacion", and
// every record is at least a lead. Matching is by substring on the folded
// label, so "Oferta Comercial enviada" still classifies as offer.
func Stage(eventType string) models.Stage {
	label := Fold(eventType)
	switch {
	case strings.Contains(label, "venta"):
		return models.StageSale
	case strings.Contains(label, "oferta"):
		return models.StageOffer
	case strings.Contains(label, "cotizacion"):
		return models.StageQuote
	}
	return models.StageLead
}

// RegionMapper buckets free-text provinces into the coarse geography groups.
// Keyword lists come from configuration; a province matching keywords of more
// than one group is ambiguous and lands in the catch-all.
type RegionMapper struct {
	target []string
	nearby []string
}

func NewRegionMapper(target, nearby []string) RegionMapper {
	return RegionMapper{target: fold(target), nearby: fold(nearby)}
}

func (m RegionMapper) Map(province string) models.Region {
	p := Fold(province)
	t := containsAny(p, m.target)
	n := containsAny(p, m.nearby)
	switch {
	case t && n:
		return models.RegionRest
	case t:
		return models.RegionTarget
	case n:
		return models.RegionNearby
	}
	return models.RegionRest
}

func containsAny(s string, kws []string) bool {
	for _, kw := range kws {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func fold(kws []string) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = Fold(kw)
	}
	return out
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Fold lowercases, trims and strips Spanish accents so keyword matching does
// not depend on how a sheet was typed.
func Fold(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}
