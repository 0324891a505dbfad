package latticeslack

import "github.com/slack-go/slack"

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) Reply(slack.SlashCommand) string {
	return "Available commands:\n" +
		"/help - Show this help message\n" +
		"/price " + priceUsage + " - Price a European option on a binomial lattice"
}
