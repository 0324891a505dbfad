package latticeslack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bcdannyboy/lattice/models"
	"github.com/slack-go/slack"
)

// maxBotSteps keeps a single chat request cheap.
const maxBotSteps = 5000

const priceUsage = "<spot> <strike> <maturity> <rate> <steps> <up> [down] <call|put>"

type PriceHandler struct{}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

func (h *PriceHandler) Reply(data slack.SlashCommand) string {
	params, err := parsePriceArgs(data.Text)
	if err != nil {
		return fmt.Sprintf("Invalid input: %s. Usage: /price %s", err, priceUsage)
	}

	price, err := models.PriceBinomial(params)
	if err != nil {
		return fmt.Sprintf("Cannot price option: %s", err)
	}
	return formatPrice(params, price)
}

// parsePriceArgs reads the /price arguments. When down is omitted it is 1/up.
func parsePriceArgs(text string) (models.BinomialParams, error) {
	args := strings.Fields(text)
	if len(args) != 7 && len(args) != 8 {
		return models.BinomialParams{}, fmt.Errorf("invalid number of arguments: got %d, want 7 or 8", len(args))
	}

	kind, err := models.ParseOptionKind(args[len(args)-1])
	if err != nil {
		return models.BinomialParams{}, err
	}

	names := []string{"spot", "strike", "maturity", "rate"}
	values := make([]float64, len(names))
	for i, name := range names {
		if values[i], err = strconv.ParseFloat(args[i], 64); err != nil {
			return models.BinomialParams{}, fmt.Errorf("invalid %s %q", name, args[i])
		}
	}

	steps, err := strconv.Atoi(args[4])
	if err != nil {
		return models.BinomialParams{}, fmt.Errorf("invalid steps %q", args[4])
	}
	if steps < 0 || steps > maxBotSteps {
		return models.BinomialParams{}, fmt.Errorf("steps must be between 0 and %d, got %d", maxBotSteps, steps)
	}

	up, err := strconv.ParseFloat(args[5], 64)
	if err != nil || up == 0 {
		return models.BinomialParams{}, fmt.Errorf("invalid up factor %q", args[5])
	}
	down := 1 / up
	if len(args) == 8 {
		if down, err = strconv.ParseFloat(args[6], 64); err != nil {
			return models.BinomialParams{}, fmt.Errorf("invalid down factor %q", args[6])
		}
	}

	return models.BinomialParams{
		Spot:     values[0],
		Strike:   values[1],
		Maturity: values[2],
		Rate:     values[3],
		Steps:    steps,
		Up:       up,
		Down:     down,
		Kind:     kind,
	}, nil
}

func formatPrice(p models.BinomialParams, price float64) string {
	return fmt.Sprintf("European %s S0=%g K=%g T=%g r=%g N=%d u=%g d=%.6g: *%.4f*",
		p.Kind, p.Spot, p.Strike, p.Maturity, p.Rate, p.Steps, p.Up, p.Down, price)
}
