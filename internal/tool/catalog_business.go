package tool

import (
	"fmt"
	"strings"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

func businessSystem(specialty string) func(Input) string {
	return func(Input) string {
		return "You are a professional business AI assistant specializing in " + specialty + "."
	}
}

var crmTasks = map[string]string{
	"lead_summary": `Analyze this lead and create a comprehensive summary:
%s

Provide:
1. Lead Quality Score (1-10)
2. Key Insights
3. Recommended Actions
4. Priority Level
5. Next Steps`,
	"follow_up_schedule": `Create a follow-up schedule for this customer:
%s

Generate:
1. Immediate follow-up (24 hours)
2. Short-term follow-ups (1 week)
3. Long-term nurturing plan
4. Recommended communication channels
5. Key talking points for each touchpoint`,
	"customer_analysis": `Perform detailed customer analysis:
%s

Analyze:
1. Customer Profile
2. Behavior Patterns
3. Purchase Potential
4. Pain Points
5. Personalized Recommendations`,
}

var productLengthWords = map[string]int{"short": 100, "medium": 250, "long": 500}

func businessTools() []*Definition {
	return []*Definition{
		{
			ID:          "ad-generator",
			Pillar:      PillarBusiness,
			Description: "Advertisement copy with headline, body, call-to-action and hashtags",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "product", Type: TypeString, Required: true, Rules: "max=200"},
				{Name: "audience", Type: TypeString, Required: true, Rules: "max=200"},
				{Name: "ad_type", Type: TypeString, Default: "social media"},
				{Name: "features", Type: TypeStrings, Rules: "max=20"},
				{Name: "tone", Type: TypeString, Default: "professional"},
			},
			System: businessSystem("marketing and advertising"),
			Template: func(in Input) string {
				features := strings.Join(in.Strings("features"), "\n")
				if features == "" {
					features = "N/A"
				}
				return fmt.Sprintf(`Create a compelling %s ad for:
Product: %s
Target Audience: %s
Tone: %s
Key Features: %s

Generate:
1. Headline (attention-grabbing)
2. Ad Copy (persuasive description)
3. Call-to-Action (clear and actionable)
4. Hashtags (if applicable for social media)

Format the output in a structured way.`,
					in.String("ad_type"), in.String("product"), in.String("audience"), in.String("tone"), features)
			},
		},
		{
			ID:          "invoice-engine",
			Pillar:      PillarBusiness,
			Description: "Itemized invoice with totals, tax and payment terms",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "company_name", Type: TypeString, Required: true},
				{Name: "client_name", Type: TypeString, Required: true},
				{Name: "client_email", Type: TypeString, Required: true, Rules: "email"},
				{Name: "items", Type: TypeObjects, Required: true, Rules: "min=1"},
				{Name: "tax_rate", Type: TypeNumber, Rules: "min=0,max=100", Default: 0.0},
				{Name: "notes", Type: TypeString},
			},
			System: businessSystem("financial documents"),
			Template: func(in Input) string {
				return fmt.Sprintf(`Generate a professional invoice with the following details:

Company: %s
Client: %s
Client Email: %s
Tax Rate: %g%%
Additional Notes: %s

Items:
%s

Create a detailed invoice including:
1. Invoice number (generate a realistic one)
2. Date (today's date)
3. Itemized list with calculations
4. Subtotal
5. Tax calculation
6. Total amount
7. Payment terms
8. Professional formatting

Output in a clear, structured format.`,
					in.String("company_name"), in.String("client_name"), in.String("client_email"),
					in.Float("tax_rate"), in.StringOr("notes", "None"), in.JSON("items"))
			},
			Post: documentText,
		},
		{
			ID:          "email-writer",
			Pillar:      PillarBusiness,
			Description: "Business email covering the given key points",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "email_type", Type: TypeString, Required: true},
				{Name: "subject", Type: TypeString, Required: true, Rules: "max=200"},
				{Name: "key_points", Type: TypeStrings, Required: true, Rules: "min=1"},
				{Name: "recipient_name", Type: TypeString},
				{Name: "tone", Type: TypeString, Default: "professional"},
			},
			System: businessSystem("business communication"),
			Template: func(in Input) string {
				tone := in.String("tone")
				return fmt.Sprintf(`Write a %s %s email with:

Recipient: %s
Subject: %s
Tone: %s

Key Points to Cover:
%s

Generate a complete email including:
1. Subject line (if different from provided)
2. Greeting
3. Body paragraphs
4. Call-to-action
5. Professional closing

Make it natural and engaging.`,
					tone, in.String("email_type"), in.StringOr("recipient_name", "[Recipient Name]"),
					in.String("subject"), tone, in.Bullets("key_points", ""))
			},
		},
		{
			ID:          "crm-assistant",
			Pillar:      PillarBusiness,
			Description: "Lead summaries, follow-up schedules and customer analysis",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "task", Type: TypeString, Required: true},
				{Name: "customer_data", Type: TypeObject, Required: true},
			},
			System: businessSystem("customer relationship management"),
			Template: func(in Input) string {
				data := in.JSON("customer_data")
				if tmpl, ok := crmTasks[in.String("task")]; ok {
					return fmt.Sprintf(tmpl, data)
				}
				return fmt.Sprintf("Process this CRM task '%s' with data: %s", in.String("task"), data)
			},
			Post: documentText,
		},
		{
			ID:          "menu-builder",
			Pillar:      PillarBusiness,
			Description: "Restaurant menu with sections, prices and dietary markers",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "restaurant_type", Type: TypeString, Required: true},
				{Name: "cuisine", Type: TypeString, Required: true},
				{Name: "items_count", Type: TypeInt, Rules: "min=1,max=50", Default: 10},
				{Name: "price_range", Type: TypeString, Rules: "oneof=low medium high premium", Default: "medium"},
			},
			System: businessSystem("restaurant and hospitality"),
			Template: func(in Input) string {
				return fmt.Sprintf(`Create a professional restaurant menu for:

Restaurant Type: %s
Cuisine: %s
Number of Items: %d
Price Range: %s

Generate a complete menu with:
1. Creative dish names
2. Appetizing descriptions
3. Realistic prices (in USD)
4. Categorized sections (appetizers, mains, desserts, drinks)
5. Dietary information (vegetarian, vegan, gluten-free markers)

Make it appealing and professional.`,
					in.String("restaurant_type"), in.String("cuisine"), in.Int("items_count"), in.String("price_range"))
			},
			Post:      documentText,
			MaxTokens: 3000,
		},
		{
			ID:          "seo-writer",
			Pillar:      PillarBusiness,
			Description: "SEO-optimized article with optional meta tags",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "target_keyword", Type: TypeString, Required: true},
				{Name: "content_type", Type: TypeString, Required: true},
				{Name: "word_count", Type: TypeInt, Rules: "min=100,max=5000", Default: 500},
				{Name: "include_meta", Type: TypeBool, Default: true},
			},
			System: businessSystem("SEO and content marketing"),
			Template: func(in Input) string {
				var b strings.Builder
				fmt.Fprintf(&b, `Create SEO-optimized content:

Target Keyword: %s
Content Type: %s
Word Count: ~%d words

Generate:
1. SEO-optimized title (with keyword)
2. Main content (naturally incorporate keyword)
3. Subheadings (H2, H3 with variations)
4. Internal linking suggestions
`, in.String("target_keyword"), in.String("content_type"), in.Int("word_count"))
				if in.Bool("include_meta") {
					b.WriteString(`5. Meta Title (55-60 characters)
6. Meta Description (150-160 characters)
7. Focus Keywords (primary and secondary)
8. URL slug suggestion`)
				}
				return b.String()
			},
			Post:      documentText,
			MaxTokens: 2500,
		},
		{
			ID:          "product-description",
			Pillar:      PillarBusiness,
			Description: "Conversion-focused product description",
			Kind:        KindCompletion,
			Shape:       domain.ShapeText,
			Fields: []Field{
				{Name: "product_name", Type: TypeString, Required: true},
				{Name: "category", Type: TypeString, Required: true},
				{Name: "features", Type: TypeStrings, Required: true, Rules: "min=1"},
				{Name: "target_audience", Type: TypeString, Required: true},
				{Name: "tone", Type: TypeString, Default: "persuasive"},
				{Name: "length", Type: TypeString, Rules: "oneof=short medium long", Default: "medium"},
			},
			System: businessSystem("e-commerce and product marketing"),
			Template: func(in Input) string {
				return fmt.Sprintf(`Write a compelling product description for:

Product: %s
Category: %s
Target Audience: %s
Tone: %s
Length: ~%d words

Features:
%s

Create:
1. Attention-grabbing headline
2. Engaging product description
3. Benefits-focused content (not just features)
4. Social proof elements
5. Strong call-to-action
6. SEO-friendly keywords

Make it persuasive and conversion-focused.`,
					in.String("product_name"), in.String("category"), in.String("target_audience"),
					in.String("tone"), productLengthWords[in.String("length")], in.Bullets("features", ""))
			},
			MaxTokens: 2000,
		},
	}
}
