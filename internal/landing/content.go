// Package landing holds the static marketing content of the landing page and
// the UI state that decides which card is expanded and which modal is open.
package landing

import (
	"strings"
	"time"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

// Service is a solution card.
type Service struct {
	ID          int
	Title       string
	Description string
	Icon        string
	Benefits    []string
}

// Feature is a "why choose us" highlight.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Testimonial is a client quote.
type Testimonial struct {
	Quote   string
	Author  string
	Role    string
	Company string
	Rating  int
}

// Stars renders the rating as filled stars.
func (t Testimonial) Stars() string {
	return strings.Repeat("★", t.Rating)
}

// Content is everything rendered on the page that does not depend on the visitor.
type Content struct {
	CompanyName  string
	Tagline      string
	HeroTitle    string
	HeroSubtitle string
	Services     []Service
	Features     []Feature
	Testimonials []Testimonial
	Year         int
}

// ForecastingService is the title of the service the demo widget showcases.
const ForecastingService = "AI-Powered Sales Forecasting"

var services = []Service{
	{
		ID:          1,
		Title:       ForecastingService,
		Description: "Leverage machine learning algorithms to predict future sales with higher accuracy, identify trends, and optimize your sales strategy.",
		Icon:        "📈",
		Benefits:    []string{"Improve forecast accuracy by up to 30%", "Identify emerging market trends", "Optimize resource allocation", "Make data-driven decisions"},
	},
	{
		ID:          2,
		Title:       "Smart Inventory Management",
		Description: "Optimize inventory levels automatically based on predictive analytics, reducing costs and preventing stockouts.",
		Icon:        "📦",
		Benefits:    []string{"Reduce inventory costs by 20-30%", "Prevent stockouts and overstock situations", "Optimize warehouse space", "Streamline supply chain"},
	},
	{
		ID:          3,
		Title:       "Automated Invoice Processing",
		Description: "Eliminate manual data entry with AI-powered document processing that automatically extracts, validates, and processes invoice data.",
		Icon:        "📄",
		Benefits:    []string{"Reduce processing time by 80%", "Minimize human error", "Detect fraudulent invoices", "Accelerate payment cycles"},
	},
	{
		ID:          4,
		Title:       "AI-Driven Customer Support",
		Description: "Deploy intelligent chatbots that understand customer inquiries and provide accurate responses 24/7.",
		Icon:        "💬",
		Benefits:    []string{"24/7 customer support coverage", "Handle up to 80% of routine inquiries", "Reduce support costs", "Improve customer satisfaction"},
	},
	{
		ID:          5,
		Title:       "Dynamic Pricing Optimization",
		Description: "Automatically adjust prices based on demand, competition, and market conditions to maximize revenue.",
		Icon:        "💰",
		Benefits:    []string{"Increase profit margins by 5-15%", "Respond to market changes in real-time", "Optimize prices across channels", "Gain competitive advantage"},
	},
	{
		ID:          6,
		Title:       "Predictive Maintenance",
		Description: "Anticipate equipment failures before they happen, reducing downtime and extending asset lifespans.",
		Icon:        "🔧",
		Benefits:    []string{"Reduce maintenance costs by 25-30%", "Minimize unplanned downtime", "Extend equipment lifespan", "Optimize maintenance scheduling"},
	},
	{
		ID:          7,
		Title:       "Data Analytics Dashboard",
		Description: "Visualize business performance metrics in real-time for strategic decision-making and performance tracking.",
		Icon:        "📊",
		Benefits:    []string{"Centralize key performance indicators", "Identify opportunities and threats", "Track progress toward goals", "Enable data-driven decisions"},
	},
	{
		ID:          8,
		Title:       "AI-Powered Fraud Detection",
		Description: "Identify suspicious patterns and anomalies in transactions to prevent financial fraud before it occurs.",
		Icon:        "🔒",
		Benefits:    []string{"Reduce fraud losses by up to 60%", "Real-time threat detection", "Minimize false positives", "Protect business reputation"},
	},
}

var features = []Feature{
	{Icon: "🚀", Title: "Rapid Implementation", Description: "Our solutions can be deployed quickly with minimal disruption to your existing operations."},
	{Icon: "🔍", Title: "Data-Driven Insights", Description: "Transform raw data into actionable intelligence to drive strategic decision-making."},
	{Icon: "💎", Title: "ROI-Focused", Description: "Our solutions are designed to deliver measurable results and quick return on investment."},
}

var testimonials = []Testimonial{
	{
		Quote:   "The AI sales forecasting tool has transformed our planning process. We've increased forecast accuracy by 28% and can now allocate resources with confidence.",
		Author:  "Sarah Johnson",
		Role:    "Sales Director",
		Company: "TechCorp",
		Rating:  5,
	},
	{
		Quote:   "The smart inventory system reduced our carrying costs by 22% in the first quarter alone. It's like having a crystal ball for our supply chain.",
		Author:  "Michael Chen",
		Role:    "Operations Manager",
		Company: "GlobalRetail",
		Rating:  5,
	},
	{
		Quote:   "Automated invoice processing cut our finance team's workload by 70% and caught several duplicate payments that would have cost us thousands.",
		Author:  "Laura Martinez",
		Role:    "CFO",
		Company: "InnovateCorp",
		Rating:  5,
	},
}

var businessSizes = []string{
	"Small (1-50 employees)",
	"Medium (51-500 employees)",
	"Large (500+ employees)",
}

// NewContent assembles the page content. Empty branding falls back to the defaults.
func NewContent(companyName, tagline string, now time.Time) Content {
	if strings.TrimSpace(companyName) == "" {
		companyName = constants.DefaultCompanyName
	}
	if strings.TrimSpace(tagline) == "" {
		tagline = constants.DefaultTagline
	}
	return Content{
		CompanyName:  companyName,
		Tagline:      tagline,
		HeroTitle:    "Transform Your Business with AI Solutions",
		HeroSubtitle: "Leverage cutting-edge artificial intelligence to optimize operations, increase revenue, and drive growth.",
		Services:     Services(),
		Features:     append([]Feature(nil), features...),
		Testimonials: append([]Testimonial(nil), testimonials...),
		Year:         now.Year(),
	}
}

// Services returns a copy of the service catalogue.
func Services() []Service {
	out := make([]Service, len(services))
	for i, s := range services {
		s.Benefits = append([]string(nil), s.Benefits...)
		out[i] = s
	}
	return out
}

// FindService looks up a service card by ID.
func FindService(id int) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// BusinessSizes returns the options of the contact form's size selector.
func BusinessSizes() []string {
	return append([]string(nil), businessSizes...)
}
