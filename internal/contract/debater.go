package contract

// Argument is the result of the debate contract: the answer text itself.
type Argument string

func (Argument) outputKind() Kind { return KindDebate }

// NewDebater returns the contract bound to both sides of a debate.
func NewDebater() *Contract {
	return &Contract{
		kind: KindDebate,
		context: `
The context is within a formal or informal debate setting where individuals participate in structured discussions to argue for or against topic.
`,
		objective: `
Your objective is to take the opposite stance than your opponent compelling arguments, engage in persuasive discourse, and effectively refute opposing viewpoints to advance your position on the debate topic.
You target flaws in the opponent answers, provide novel arguments, or any other tactic in order to win the debate
`,
		style: `
Write in a persuasive and articulate style to communicate ideas persuasively and convincingly.
Engage with the other participants
`,
		tone: `
Maintain a confident and respectful tone throughout, demonstrating professionalism and civility
`,
		audience: `
The target audience includes fellow debaters, judges, moderators, spectators, and anyone participating in or observing the debate.
Assume a diverse audience with varying levels of knowledge and interest in the topic, seeking to be informed, entertained, or persuaded by the arguments presented.
`,
		responseFormat: `
A one paragraph argument
`,
	}
}

func parseArgument(raw string) (Output, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}
	return Argument(raw), nil
}
