package contract

import (
	"math"
	"strconv"
	"strings"
)

// Judging categories, in the order judges are asked to report them.
const (
	CategoryReasoningAndEvidence          = "ReasoningAndEvidence"
	CategoryListeningAndResponse          = "ListeningAndResponse"
	CategoryOrganisationAndPrioritisation = "OrganisationAndPrioritisation"
	CategoryExpressionAndDelivery         = "ExpressionAndDelivery"
	CategoryTeamworkAndRoles              = "TeamworkAndRoles"
)

// Categories lists every judging category in report order.
var Categories = []string{
	CategoryReasoningAndEvidence,
	CategoryListeningAndResponse,
	CategoryOrganisationAndPrioritisation,
	CategoryExpressionAndDelivery,
	CategoryTeamworkAndRoles,
}

// TeamScore is one category x team line of a scorecard.
type TeamScore struct {
	Category string
	TeamID   string
	Score    float64 // raw score / max_score
	Rational string
}

// Scorecard is the result of the judging contract: rows grouped by category
// in Categories order, teams in answer order within each category.
type Scorecard []TeamScore

func (Scorecard) outputKind() Kind { return KindJudging }

const transcriptFormat = `
<Discourse>
<Argument><Number></Number><Team_ID></Team_ID><Text></Text></Argument>
<Argument><Number></Number><Team_ID></Team_ID><Text></Text></Argument>
...
<Argument><Number></Number><Team_ID></Team_ID><Text></Text></Argument>
</Discourse>
`

const scorecardFormat = `
<ReasoningAndEvidence>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
</ReasoningAndEvidence>
<ListeningAndResponse>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
</ListeningAndResponse>
<OrganisationAndPrioritisation>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
</OrganisationAndPrioritisation>
<ExpressionAndDelivery>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
</ExpressionAndDelivery>
<TeamworkAndRoles>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
<Team><Team_ID></Team_ID><Score max_score="100"></Score><Rational></Rational></Team>
</TeamworkAndRoles>
`

// NewJudge returns the contract used to score a finished discourse.
func NewJudge() *Contract {
	return &Contract{
		kind: KindJudging,
		context: `
Within the realm of academic or competitive debating, judges play a crucial role in evaluating and determining the outcome of debates.
This could include debate competitions, academic debate clubs, or formal debating events.
`,
		objective: `
Your task is to provide fair and impartial judgment in debates, evaluating the arguments presented by debaters based on criteria:
* Reasoning and evidence:
    - How well has the motion been defined?
    - Have the arguments been clearly and logically constructed?
    - Have appropriate examples and evidence been used?
    - Is everything said relevant to the motion?
    - Are the speakers guilty of any logical fallacies?
* Listening and response:
    - How effective and thorough is rebuttal of previous speakers?
    - Are points of information precise, concise, timely, focused and relevant?
    - Has the point of clash been identified and used effectively?
* Organisation and prioritisation:
    - Are there the right number of arguments?
    - Are they organised effectively, with the strongest coming first?
    - Are the arguments divided effectively between speakers?
    - Is time used effectively.
* Expression and delivery:
    - Do they sound as if they care about what they are saying?
    - Do they (where appropriate) use humour effectively?
* Team work and roles:
    - Do the speakers support to and refer to each other?
    - Do they avoid contradicting or repeating each other?
`,
		style: `
Write in a formal and authoritative style, resembling guidelines or instructions for judges in a debate setting.
Ensure clarity and precision in outlining evaluation criteria and procedures, catering to judges seeking guidance on how to assess debates effectively.
`,
		tone: `
Maintain a professional and objective tone throughout, emphasizing the importance of fairness, impartiality, and adherence to debate rules.
Offer guidance and insights in a respectful manner, fostering an atmosphere of integrity and credibility in the judging process.
`,
		audience: `
The target audience includes judges participating in debate competitions, academic debate coaches, and individuals involved in organizing or overseeing debate events.
Assume a readership with a background in debate or a keen interest in developing their skills in evaluating and adjudicating debates.
`,
		inputFormat:    transcriptFormat,
		responseFormat: scorecardFormat,
	}
}

type scoreXML struct {
	Value    string `xml:",chardata"`
	MaxScore string `xml:"max_score,attr"`
}

type teamXML struct {
	TeamID   string   `xml:"Team_ID"`
	Score    scoreXML `xml:"Score"`
	Rational string   `xml:"Rational"`
}

type categoryXML struct {
	Teams []teamXML `xml:"Team"`
}

type scorecardXML struct {
	ReasoningAndEvidence          *categoryXML `xml:"ReasoningAndEvidence"`
	ListeningAndResponse          *categoryXML `xml:"ListeningAndResponse"`
	OrganisationAndPrioritisation *categoryXML `xml:"OrganisationAndPrioritisation"`
	ExpressionAndDelivery         *categoryXML `xml:"ExpressionAndDelivery"`
	TeamworkAndRoles              *categoryXML `xml:"TeamworkAndRoles"`
}

func (s *scorecardXML) byCategory() map[string]*categoryXML {
	return map[string]*categoryXML{
		CategoryReasoningAndEvidence:          s.ReasoningAndEvidence,
		CategoryListeningAndResponse:          s.ListeningAndResponse,
		CategoryOrganisationAndPrioritisation: s.OrganisationAndPrioritisation,
		CategoryExpressionAndDelivery:         s.ExpressionAndDelivery,
		CategoryTeamworkAndRoles:              s.TeamworkAndRoles,
	}
}

func parseScorecard(raw string) (Output, error) {
	var doc scorecardXML
	if err := decodeDocument(raw, &doc); err != nil {
		return nil, &ParseError{Kind: KindJudging, Err: err}
	}

	blocks := doc.byCategory()
	var card Scorecard
	for _, category := range Categories {
		block := blocks[category]
		if block == nil {
			return nil, &InvalidScoreError{Category: category, Reason: "missing category block"}
		}
		if len(block.Teams) == 0 {
			return nil, &InvalidScoreError{Category: category, Reason: "no <Team> entries"}
		}
		for _, team := range block.Teams {
			score, err := normaliseScore(category, team)
			if err != nil {
				return nil, err
			}
			card = append(card, TeamScore{
				Category: category,
				TeamID:   strings.TrimSpace(team.TeamID),
				Score:    score,
				Rational: team.Rational,
			})
		}
	}
	return card, nil
}

func normaliseScore(category string, team teamXML) (float64, error) {
	teamID := strings.TrimSpace(team.TeamID)
	invalid := func(reason string) error {
		return &InvalidScoreError{Category: category, TeamID: teamID, Reason: reason}
	}

	if strings.TrimSpace(team.Score.MaxScore) == "" {
		return 0, invalid("missing max_score attribute")
	}
	maxScore, err := strconv.ParseFloat(strings.TrimSpace(team.Score.MaxScore), 64)
	if err != nil || math.IsNaN(maxScore) || math.IsInf(maxScore, 0) {
		return 0, invalid("max_score is not a number")
	}
	if maxScore <= 0 {
		return 0, invalid("max_score must be positive")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(team.Score.Value), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, invalid("score is not a number")
	}
	if value < 0 || value > maxScore {
		return 0, invalid("score outside [0, max_score]")
	}
	return value / maxScore, nil
}

// RenderScorecard writes rows back in the judging response shape, with scores
// expressed out of 100. It is used to show judgements to voters.
func RenderScorecard(rows []TeamScore) string {
	var sb strings.Builder
	for _, category := range Categories {
		var teams []TeamScore
		for _, r := range rows {
			if r.Category == category {
				teams = append(teams, r)
			}
		}
		if len(teams) == 0 {
			continue
		}
		sb.WriteString("<" + category + ">\n")
		for _, t := range teams {
			sb.WriteString("<Team><Team_ID>")
			sb.WriteString(EscapeText(t.TeamID))
			sb.WriteString(`</Team_ID><Score max_score="100">`)
			sb.WriteString(strconv.FormatFloat(math.Round(t.Score*10000)/100, 'f', -1, 64))
			sb.WriteString("</Score><Rational>")
			sb.WriteString(EscapeText(t.Rational))
			sb.WriteString("</Rational></Team>\n")
		}
		sb.WriteString("</" + category + ">\n")
	}
	return sb.String()
}
