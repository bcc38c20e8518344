package domain

import "fmt"

type Airplane struct {
	ID       int64  `yaml:"id"`
	Type     string `yaml:"type"`
	Company  string `yaml:"company"`
	Capacity int    `yaml:"capacity"`
}

func (a Airplane) String() string {
	return fmt.Sprintf("Aircraft %s of company %s", a.Type, a.Company)
}

type Airport struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Country string `yaml:"country"`
}
