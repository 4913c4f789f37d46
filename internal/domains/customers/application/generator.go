package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
)

type location struct {
	city  string
	state string
	zip   string
}

// Real MD/VA/DE locations within ~60 miles of Annapolis, MD.
var serviceArea = []location{
	{"Annapolis", "MD", "21401"}, {"Annapolis", "MD", "21403"},
	{"Baltimore", "MD", "21201"}, {"Baltimore", "MD", "21202"},
	{"Columbia", "MD", "21044"}, {"Columbia", "MD", "21045"},
	{"Ellicott City", "MD", "21043"}, {"Bowie", "MD", "20715"},
	{"Glen Burnie", "MD", "21061"}, {"Severna Park", "MD", "21146"},
	{"Pasadena", "MD", "21122"}, {"Arnold", "MD", "21012"},
	{"Crofton", "MD", "21114"}, {"Odenton", "MD", "21113"},
	{"Millersville", "MD", "21108"}, {"Gambrills", "MD", "21054"},
	{"Edgewater", "MD", "21037"}, {"Davidsonville", "MD", "21035"},
	{"Lothian", "MD", "20711"}, {"Deale", "MD", "20751"},
	{"Alexandria", "VA", "22301"}, {"Alexandria", "VA", "22302"},
	{"Arlington", "VA", "22201"}, {"Arlington", "VA", "22202"},
	{"Fairfax", "VA", "22030"}, {"Fairfax", "VA", "22031"},
	{"Reston", "VA", "20190"}, {"Reston", "VA", "20191"},
	{"Herndon", "VA", "20170"}, {"Vienna", "VA", "22180"},
	{"Vienna", "VA", "22181"}, {"McLean", "VA", "22101"},
	{"McLean", "VA", "22102"}, {"Springfield", "VA", "22150"},
	{"Springfield", "VA", "22151"},
	{"Wilmington", "DE", "19801"}, {"Wilmington", "DE", "19802"},
	{"Newark", "DE", "19702"}, {"Newark", "DE", "19711"},
	{"Dover", "DE", "19901"}, {"Middletown", "DE", "19709"},
	{"Bear", "DE", "19701"}, {"Glasgow", "DE", "19702"},
	{"New Castle", "DE", "19720"},
}

// Generator produces plausible fake customers for demo databases.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator seeds a generator; seed 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Customers builds count customers with unique emails, created within the two years before now.
func (g *Generator) Customers(count int, now time.Time) ([]*domain.Customer, error) {
	out := make([]*domain.Customer, 0, count)
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		first, last := g.faker.FirstName(), g.faker.LastName()
		loc := serviceArea[g.faker.Number(0, len(serviceArea)-1)]
		customer, err := domain.NewCustomer(domain.Contact{
			FirstName:  first,
			LastName:   last,
			Email:      uniqueEmail(first, last, seen),
			Phone:      g.faker.Numerify("(###) ###-####"),
			Address:    g.faker.Street(),
			City:       loc.city,
			State:      loc.state,
			PostalCode: loc.zip,
		})
		if err != nil {
			return nil, err
		}
		customer.CreatedAt = now.AddDate(0, 0, -g.faker.Number(0, 730))
		customer.UpdatedAt = customer.CreatedAt
		out = append(out, customer)
	}
	return out, nil
}

func uniqueEmail(first, last string, seen map[string]struct{}) string {
	local := emailPart(first) + "." + emailPart(last)
	email := local + "@example.com"
	for n := 1; ; n++ {
		if _, taken := seen[email]; !taken {
			break
		}
		email = fmt.Sprintf("%s%d@example.com", local, n)
	}
	seen[email] = struct{}{}
	return email
}

func emailPart(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
}
