package tax

import (
	"math"
	"testing"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

func assertMoney(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > 0.005 {
		t.Errorf("%s: expected %.2f, got %.2f", description, expected, actual)
	}
}

func TestIncomeTax_BelowPersonalAllowance(t *testing.T) {
	rules := taxrules.Default()

	for _, gross := range []float64{0, 5000, 12000, 12570} {
		result := IncomeTax(gross, 0, models.SalarySacrifice, rules)
		assertMoney(t, 0, result.Tax, "tax below personal allowance")
	}
}

func TestIncomeTax_BasicRate(t *testing.T) {
	rules := taxrules.Default()

	// 30,000 gross: personal allowance 12,570 then 20% on 17,430.
	result := IncomeTax(30000, 0, models.SalarySacrifice, rules)
	assertMoney(t, 3486.00, result.Tax, "tax on 30k")

	if result.EffectiveRate <= 0 || result.EffectiveRate >= rules.BasicRate {
		t.Errorf("effective rate should be between 0 and basic rate, got %v", result.EffectiveRate)
	}
}

func TestIncomeTax_HigherRate(t *testing.T) {
	rules := taxrules.Default()

	// 80,000 gross: 7,540 basic + 11,892 higher.
	result := IncomeTax(80000, 0, models.SalarySacrifice, rules)
	assertMoney(t, 19432.00, result.Tax, "tax on 80k")

	if len(result.Bands) != 3 {
		t.Fatalf("expected 3 bands (allowance, basic, higher), got %d", len(result.Bands))
	}
	assertMoney(t, 0, result.Bands[0].Tax, "allowance band tax")
	assertMoney(t, 7540.00, result.Bands[1].Tax, "basic band tax")
	assertMoney(t, 11892.00, result.Bands[2].Tax, "higher band tax")
}

func TestIncomeTax_SalarySacrificeMatchesNetPay(t *testing.T) {
	rules := taxrules.Default()

	sacrifice := IncomeTax(50000, 5000, models.SalarySacrifice, rules)
	netPay := IncomeTax(50000, 5000, models.NetPay, rules)
	none := IncomeTax(50000, 0, models.SalarySacrifice, rules)

	assertMoney(t, sacrifice.Tax, netPay.Tax, "salary sacrifice vs net pay")
	if sacrifice.Tax >= none.Tax {
		t.Errorf("contributing should lower tax: %v >= %v", sacrifice.Tax, none.Tax)
	}
}

func TestIncomeTax_ReliefAtSourceExtendsBasicBand(t *testing.T) {
	rules := taxrules.Default()

	// Income spanning into the higher band: the grossed-up contribution
	// moves part of it back into the basic band.
	with := IncomeTax(60000, 4000, models.ReliefAtSource, rules)
	without := IncomeTax(60000, 0, models.ReliefAtSource, rules)

	if with.Tax >= without.Tax {
		t.Errorf("relief at source should lower tax: %v >= %v", with.Tax, without.Tax)
	}
	// Adjusted gross is untouched by relief at source.
	assertMoney(t, 60000, with.AdjustedGross, "relief at source adjusted gross")

	// A 4,000 net contribution extends the band by 5,000; the saving is
	// 5,000 at the 20-point rate difference.
	assertMoney(t, without.Tax-1000, with.Tax, "band extension saving")
}

func TestIncomeTax_AllowanceTaper(t *testing.T) {
	rules := taxrules.Default()

	// At 110,000 the allowance loses floor(10,000 * 0.5) = 5,000.
	result := IncomeTax(110000, 0, models.SalarySacrifice, rules)
	assertMoney(t, 7570, result.Allowance, "tapered allowance at 110k")

	// Fully removed at 125,140 and beyond.
	result = IncomeTax(130000, 0, models.SalarySacrifice, rules)
	assertMoney(t, 0, result.Allowance, "allowance fully tapered")
}

func TestIncomeTax_ZeroIncome(t *testing.T) {
	rules := taxrules.Default()

	result := IncomeTax(0, 0, models.NetPay, rules)
	assertMoney(t, 0, result.Tax, "tax on zero income")
	if result.EffectiveRate != 0 {
		t.Errorf("effective rate on zero income should be 0, got %v", result.EffectiveRate)
	}
}

func TestIncomeTax_AdditionalRate(t *testing.T) {
	rules := taxrules.Default()

	result := IncomeTax(200000, 0, models.SalarySacrifice, rules)

	// No allowance, so bands are basic, higher, additional.
	last := result.Bands[len(result.Bands)-1]
	if last.Name != "additional" {
		t.Fatalf("expected additional band, got %q", last.Name)
	}
	if last.Rate != rules.AdditionalRate {
		t.Errorf("expected additional rate %v, got %v", rules.AdditionalRate, last.Rate)
	}
}
