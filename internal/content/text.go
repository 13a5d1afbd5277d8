package content

var (
	AboutMe = `I joined the youth council as a volunteer at fifteen, and I have spent every year since
	organising camps, running debates and listening to members who felt nobody asked for their opinion.
	I believe the council works best when it is open about its decisions and honest about its budget.
	Outside of council work you will find me coaching the junior football team,
	playing bass in a very loud band, or arguing about board game rules.`

	Tagline = `Listen first. Decide together. Report back.`

	CampDetails = `Ran the **summer leadership camp** for 120 members across three weekends.

- Rebuilt the volunteer rota so no leader worked more than two nights in a row
- Negotiated a 15% cheaper venue by booking two seasons at once
- Published the full camp budget afterwards, line by line`

	ForumDetails = `Started a monthly open forum where any member can put a question to the board.
Every question gets a written answer within two weeks, published on the notice board and online.`

	NewsletterDetails = `Edited the member newsletter for two years and moved it from paper to a
mobile-friendly format. Readership went from *roughly 200* to over **900** members.`

	BudgetAnswer = `Every council decision that spends money will be listed with its cost.
A short quarterly report will show where the membership fee goes.`

	InclusionAnswer = `Events will be planned with accessibility in mind from the start:
step-free venues, quiet rooms, and subsidised places for members who need them.`

	VoiceAnswer = `Members will be able to submit proposals online. Any proposal with enough
support goes on the council agenda, and the outcome is published.`
)

// Default is the built-in manifesto used when no content file is configured.
func Default() *Site {
	s := &Site{
		Candidate:    "Alex Morgan",
		Position:     "Council Member",
		Organization: "Regional Youth Council",
		Tagline:      Tagline,
		About:        AboutMe,
		Email:        "alex@example.org",
		Experiences: []Experience{
			{
				Title:       "Summer Leadership Camp",
				Date:        "2023 - 2024",
				Company:     "Regional Youth Council",
				Description: "Lead organiser of the annual leadership camp.",
				Icon:        "tent",
				Color:       "text-emerald-600",
				BgColor:     "bg-emerald-50",
				Stats:       "120 members",
				Images: []string{
					"/images/camp/opening.jpg",
					"/images/camp/workshop.jpg",
					"/images/camp/campfire.jpg",
				},
				Tags:       []string{"Events", "Leadership"},
				Details:    CampDetails,
				Skills:     []string{"Planning", "Budgeting", "Team leadership"},
				Highlights: []string{"Three weekends, zero cancellations", "Budget published in full", "Volunteer rota rebuilt"},
			},
			{
				Title:       "Open Member Forum",
				Date:        "2022 - Present",
				Company:     "Regional Youth Council",
				Description: "Founded a monthly forum for members to question the board.",
				Icon:        "megaphone",
				Color:       "text-blue-600",
				BgColor:     "bg-blue-50",
				Stats:       "24 sessions",
				Images: []string{
					"/images/forum/hall.jpg",
					"/images/forum/panel.jpg",
				},
				Tags:       []string{"Transparency", "Community"},
				Details:    ForumDetails,
				Highlights: []string{"Written answers within two weeks", "Questions archived online"},
			},
			{
				Title:       "Member Newsletter",
				Date:        "2021 - 2023",
				Company:     "Regional Youth Council",
				Description: "Editor of the member newsletter.",
				Icon:        "newspaper",
				Color:       "text-purple-600",
				BgColor:     "bg-purple-50",
				Stats:       "900 readers",
				Images:      []string{"/images/newsletter/cover.jpg"},
				Tags:        []string{"Communication"},
				Details:     NewsletterDetails,
				Links:       Links{Live: "https://example.org/newsletter"},
			},
		},
		Questions: []Question{
			{
				Title:       "Where does the money go?",
				Content:     "A public, line-by-line budget.",
				Stats:       "Quarterly reports",
				Emoji:       "💶",
				Details:     BudgetAnswer,
				StatsColor:  "text-emerald-600",
				Experienced: "Published the camp budget in 2024",
			},
			{
				Title:       "Is there room for everyone?",
				Content:     "Accessible events by default.",
				Stats:       "Every event",
				Emoji:       "🤝",
				Details:     InclusionAnswer,
				Images:      []string{"/images/forum/hall.jpg"},
				StatsColor:  "text-pink-600",
				Experienced: "Organised step-free forum venues",
			},
			{
				Title:       "How do members get heard?",
				Content:     "Online proposals that reach the agenda.",
				Stats:       "Open to all members",
				Emoji:       "🗳️",
				Details:     VoiceAnswer,
				StatsColor:  "text-blue-600",
				Experienced: "Ran 24 open forums",
			},
		},
		Skills: []Skill{
			{Name: "Event planning", Category: "Organising", Level: 90},
			{Name: "Budgeting", Category: "Organising", Level: 75},
			{Name: "Public speaking", Category: "Communication", Level: 85},
			{Name: "Writing", Category: "Communication", Level: 80},
			{Name: "Mediation", Category: "People", Level: 70},
		},
		Socials: []Social{
			{Name: "Instagram", URL: "https://instagram.com/", Icon: "instagram"},
			{Name: "LinkedIn", URL: "https://linkedin.com/", Icon: "linkedin"},
			{Name: "Email", URL: "mailto:alex@example.org", Icon: "mail"},
		},
	}
	if err := s.prepare(); err != nil {
		panic("built-in content: " + err.Error())
	}
	return s
}
