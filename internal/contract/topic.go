package contract

import "errors"

// TopicDraft is one topic proposed by a topic creator.
type TopicDraft struct {
	Subject  string `xml:"Subject"`
	Rational string `xml:"Rational"`
}

// TopicList is the result of the topic-creation contract, in answer order.
type TopicList []TopicDraft

func (TopicList) outputKind() Kind { return KindTopicCreation }

// NewTopicCreator returns the contract used to ask an agent for debate topics.
func NewTopicCreator() *Contract {
	return &Contract{
		kind: KindTopicCreation,
		context: `
Within the domain of academic, professional, or recreational debate settings where individuals are tasked with selecting topics for debates. 
This could include debate clubs, educational institutions, public forums, or online debating communities.
`,
		objective: `
Your objective is to choose engaging, relevant, and thought-provoking topics that encourage critical thinking, stimulate discussion, and foster a productive exchange of ideas among participants. 
The aim is to inspire lively debates that explore various perspectives on important issues.
`,
		style: `
Write in an informative and persuasive style, resembling guidelines or recommendations for selecting debate topics. 
Ensure clarity and coherence in presenting the rationale behind topic selection, catering to individuals seeking guidance on how to choose suitable debate topics effectively.
`,
		tone: `
Maintain a professional and inclusive tone throughout. 
Encourage creativity and diversity in topic selection, fostering an atmosphere of open-mindedness and inclusivity.
`,
		audience: `
The target audience includes debate organizers, educators, students, professionals, and anyone interested in selecting topics for debates. 
Assume a readership with varying levels of experience in debate and a desire to choose topics that inspire meaningful discourse and intellectual engagement.
`,
		responseFormat: `
10 different topics formated as:
<Topic><Subject></Subject><Rational></Rational></Topic>
...
<Topic><Subject></Subject><Rational></Rational></Topic>
`,
	}
}

var errNoTopics = errors.New("no <Topic> elements")

func parseTopics(raw string) (Output, error) {
	var doc struct {
		Topics []TopicDraft `xml:"Topic"`
	}
	if err := decodeDocument(raw, &doc); err != nil {
		return nil, &ParseError{Kind: KindTopicCreation, Err: err}
	}
	if len(doc.Topics) == 0 {
		return nil, &ParseError{Kind: KindTopicCreation, Err: errNoTopics}
	}
	return TopicList(doc.Topics), nil
}
