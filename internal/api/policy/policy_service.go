package policy

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	liquidsURL = "https://www.tsa.gov/travel/security-screening/whatcanibring/items/travel-size-toiletries"
	batteryURL = "https://www.faa.gov/hazmat/packsafe/lithium-batteries"

	liquidsSummary = "TSA liquids rule (3-1-1): containers ≤ 3.4 oz / 100 mL; " +
		"all containers fit in one quart-size transparent bag; one bag per passenger; " +
		"place in bin for screening. Larger volumes → checked bag."

	batterySummary = "Power banks (lithium batteries): carry-on only (no checked). " +
		"≤100 Wh allowed without airline approval; 100–160 Wh requires airline approval; " +
		"protect terminals from short circuit."
)

// DefaultVoltage is the nominal lithium-ion cell voltage assumed when the
// text gives mAh without a voltage.
const DefaultVoltage = 3.7

var (
	wattHoursRe = regexp.MustCompile(`(\d+(\.\d+)?)\s*wh\b`)
	milliAmpRe  = regexp.MustCompile(`(\d+(\.\d+)?)\s*mah\b`)
	voltageRe   = regexp.MustCompile(`(\d+(\.\d+)?)\s*v\b`)
)

// Service answers policy questions from static fixtures: the liquids and
// battery FAQ texts, the power-bank capacity estimator, and the airline
// baggage-link table.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// LiquidsSummary returns the TSA 3-1-1 summary and its source URL.
func (s *Service) LiquidsSummary() (string, string) {
	return liquidsSummary, liquidsURL
}

// BatterySummary returns the FAA lithium-battery summary and its source URL.
func (s *Service) BatterySummary() (string, string) {
	return batterySummary, batteryURL
}

// PowerBankEstimate is a parsed battery capacity. Voltage is nil when the
// text stated watt-hours directly.
type PowerBankEstimate struct {
	WattHours float64
	Voltage   *float64
}

// EstimatePowerBank parses a battery spec out of normalized text. Direct
// Wh wins over mAh; mAh is converted via (mAh/1000) x V with the voltage
// found in the text or the 3.7 V nominal default.
func (s *Service) EstimatePowerBank(text string) (PowerBankEstimate, bool) {
	t := strings.ReplaceAll(text, ",", " ")

	if m := wattHoursRe.FindStringSubmatch(t); m != nil {
		wh, _ := strconv.ParseFloat(m[1], 64)
		return PowerBankEstimate{WattHours: wh}, true
	}

	if m := milliAmpRe.FindStringSubmatch(t); m != nil {
		mah, _ := strconv.ParseFloat(m[1], 64)
		v := DefaultVoltage
		if mv := voltageRe.FindStringSubmatch(t); mv != nil {
			v, _ = strconv.ParseFloat(mv[1], 64)
		}
		return PowerBankEstimate{WattHours: (mah / 1000.0) * v, Voltage: &v}, true
	}

	return PowerBankEstimate{}, false
}

// ClassifyWattHours maps a capacity onto the FAA guidance bands. Both
// band boundaries are inclusive: 100 Wh still needs no approval and
// 160 Wh is still allowed with approval.
func (s *Service) ClassifyWattHours(wh float64) string {
	switch {
	case wh <= 100:
		return "Allowed in carry-on without airline approval (no checked baggage)."
	case wh <= 160:
		return "Carry-on allowed with airline approval (no checked baggage)."
	default:
		return "Not allowed for passenger aircraft (exceeds 160 Wh)."
	}
}

// BatterySourceURL exposes the FAA link for answers built from the
// estimator rather than the summary text.
func (s *Service) BatterySourceURL() string {
	return batteryURL
}

// PowerBankVerdict renders the full estimator answer line.
func (s *Service) PowerBankVerdict(est PowerBankEstimate) string {
	vTxt := ""
	if est.Voltage != nil {
		vTxt = fmt.Sprintf(" using %g V,", *est.Voltage)
	}
	return fmt.Sprintf("Estimated capacity ≈ %.1f Wh%s which falls under: %s",
		est.WattHours, vTxt, s.ClassifyWattHours(est.WattHours))
}
