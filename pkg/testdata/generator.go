// Package testdata generates realistic lead fixtures for tests and local
// development seeding.
package testdata

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/admitdesk/backoffice/pkg/lead"
)

var (
	courses = []string{
		"Graphics Design", "Web Development", "Motion Graphics",
		"Digital Marketing", "UI/UX Design",
	}
	sources = []string{"Facebook", "Website", "Walk In", "Referral", "Seminar"}
)

// Generator produces fake leads with stable sequential IDs.
type Generator struct {
	faker *gofakeit.Faker
	seq   int
}

// NewGenerator creates a seeded generator; the same seed gives the same leads.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Lead produces one fake lead in the given status, with a follow-up log
// shaped to match.
func (g *Generator) Lead(status lead.Status) lead.Lead {
	g.seq++
	assignedAt := g.faker.DateRange(time.Now().AddDate(0, -2, 0), time.Now())

	l := lead.Lead{
		ID:               g.faker.UUID(),
		LeadID:           fmt.Sprintf("LD-%04d", g.seq),
		Name:             g.faker.Name(),
		Phone:            fmt.Sprintf("+88017%08d", g.faker.Number(0, 99999999)),
		Email:            g.faker.Email(),
		InterestedCourse: g.faker.RandomString(courses),
		Source:           g.faker.RandomString(sources),
		Status:           status,
		AssignedTo:       g.faker.Name(),
		AssignedAt:       &assignedAt,
	}

	switch status {
	case lead.StatusInFollowUp:
		n := g.faker.Number(1, 4)
		for i := 0; i < n; i++ {
			at := assignedAt.AddDate(0, 0, i+1)
			fu := lead.FollowUp{
				At:               at,
				By:               l.AssignedTo,
				Note:             g.faker.Sentence(6),
				NextFollowUpDate: at.AddDate(0, 0, 3).Format("2006-01-02"),
				Priority:         lead.Priorities()[g.faker.Number(0, 3)],
			}
			l.FollowUps = append(l.FollowUps, fu)
		}
		last := l.FollowUps[len(l.FollowUps)-1]
		l.Priority = last.Priority
		l.NextFollowUpDate = last.NextFollowUpDate
	case lead.StatusAdmitted:
		admittedAt := assignedAt.AddDate(0, 0, g.faker.Number(3, 20))
		l.AdmittedAt = &admittedAt
		l.AdmittedToCourse = l.InterestedCourse
		l.AdmittedToBatch = fmt.Sprintf("%s-%d", l.InterestedCourse[:2], g.faker.Number(10, 30))
	}

	return l
}

// Leads produces n fake leads spread across the given status.
func (g *Generator) Leads(n int, status lead.Status) []lead.Lead {
	out := make([]lead.Lead, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Lead(status))
	}
	return out
}
