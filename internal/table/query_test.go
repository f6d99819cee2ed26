package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var courses = []Row{
	{"Rahul Shetty", "Selenium Webdriver with Java Basics + Advanced + Interview Guide", "30"},
	{"Rahul Shetty", "Learn SQL in Practical + Database Testing from Scratch", "25"},
	{"Rahul Shetty", "Appium (Selenium) - Mobile Automation Testing from Scratch", "30"},
	{"Rahul Shetty", "WebSecurity Testing for Beginners-QA knowledge to next level", "20"},
	{"Rahul Shetty", "Learn JMETER from Scratch - (Performance + Load) Testing Tool", "25"},
	{"Rahul Shetty", "WebServices / REST API Testing with SoapUI", "35"},
	{"Rahul Shetty", "QA Expert Course :Software Testing + Bugzilla + SQL + Agile", "25"},
	{"Rahul Shetty", "Master Selenium Automation in simple Python Language", "25"},
	{"Rahul Shetty", "Advanced Selenium Framework Pageobject, TestNG, Maven, Cucumber", "20"},
	{"Rahul Shetty", "Write effective QA Resume that will turn to interview call", "0"},
}

func TestFilterSeleniumCourses(t *testing.T) {
	got := Filter(courses, Contains(1, "selenium"))
	assert.Len(t, got, 4)
	assert.Equal(t, courses[0], got[0])
	assert.Equal(t, courses[8], got[3])
}

func TestFilterPriceBands(t *testing.T) {
	assert.Len(t, Filter(courses, Between(2, 0, 25)), 2)
	assert.Equal(t, []Row{courses[9]}, Filter(courses, Equals(2, 0)))
	assert.Empty(t, Filter(courses, Equals(2, 99)))
	assert.Nil(t, Filter(nil, Equals(2, 0)))
}

func TestMaxNumeric(t *testing.T) {
	max, ok := MaxNumeric(courses, 2)
	assert.True(t, ok)
	assert.Equal(t, 35, max)

	rows := []Row{{"0"}, {"15"}, {"40"}, {"0"}}
	max, ok = MaxNumeric(rows, 0)
	assert.True(t, ok)
	assert.Equal(t, 40, max)

	_, ok = MaxNumeric([]Row{{"0"}, {"0"}}, 0)
	assert.False(t, ok)

	_, ok = MaxNumeric([]Row{{"-3"}, {"free"}}, 0)
	assert.False(t, ok)

	_, ok = MaxNumeric(nil, 0)
	assert.False(t, ok)
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"30", 30},
		{"25.99", 25},
		{"  42 USD", 42},
		{"\t-4", -4},
		{"+7", 7},
		{"$30", 0},
		{"", 0},
		{"-", 0},
		{"abc", 0},
		{"007", 7},
		{"99999999999999999999999", math.MaxInt},
		{"-99999999999999999999999", math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, LeadingInt(tt.in))
		})
	}
}
