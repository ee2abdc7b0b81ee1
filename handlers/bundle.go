package handlers

// HandlerBundle groups all endpoint handlers into one struct so route
// registration takes a single argument.
type HandlerBundle struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Dashboard    *DashboardHandler
	Jobs         *JobHandler
	Proposals    *ProposalHandler
	Contracts    *ContractHandler
	Messages     *MessageHandler
	Testimonials *TestimonialHandler
	Admin        *AdminHandler
}
