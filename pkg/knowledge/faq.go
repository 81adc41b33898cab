package knowledge

import (
	"fmt"
	"strings"
)

// FAQItem is a single canned question/answer pair shown to the model.
type FAQItem struct {
	Category string
	Question string
	Answer   string
}

var faqData = []FAQItem{
	{
		Category: "Shipping",
		Question: "How long does shipping take?",
		Answer:   "Standard shipping takes 5-7 business days. Express shipping takes 2-3 business days. Same-day delivery is available for orders placed before 2 PM in select metro areas.",
	},
	{
		Category: "Shipping",
		Question: "Do you ship internationally?",
		Answer:   "Yes, we ship to over 50 countries. International shipping typically takes 10-14 business days. Import duties and taxes may apply depending on your location.",
	},
	{
		Category: "Shipping",
		Question: "How much does shipping cost?",
		Answer:   "Standard shipping is free for orders over $50. Express shipping costs $9.99. International shipping rates vary by destination, starting at $14.99.",
	},
	{
		Category: "Returns",
		Question: "What is your return policy?",
		Answer:   "We offer a 30-day return policy for most items. Items must be unused and in original packaging. Electronics have a 15-day return window. To initiate a return, visit your order history and select \"Return Item\".",
	},
	{
		Category: "Returns",
		Question: "How do I return an item?",
		Answer:   "Go to My Orders, select the item you want to return, click \"Return Item\", choose a reason, and print your prepaid shipping label. Drop off the package at any authorized shipping location.",
	},
	{
		Category: "Returns",
		Question: "How long do refunds take?",
		Answer:   "Once we receive your return, refunds are processed within 3-5 business days. The refund will appear on your original payment method within 5-10 business days depending on your bank.",
	},
	{
		Category: "Payment",
		Question: "What payment methods do you accept?",
		Answer:   "We accept Visa, Mastercard, American Express, Discover, PayPal, Apple Pay, Google Pay, and Shop Pay. We also offer financing options through Affirm for orders over $50.",
	},
	{
		Category: "Payment",
		Question: "Is my payment information secure?",
		Answer:   "Yes, we use industry-standard SSL encryption and are PCI DSS compliant. We never store your full credit card number on our servers.",
	},
	{
		Category: "Orders",
		Question: "How can I track my order?",
		Answer:   "Once your order ships, you will receive a tracking email. You can also view tracking information in the My Orders section of your account. Click on the order number to see detailed tracking.",
	},
	{
		Category: "Orders",
		Question: "Can I cancel my order?",
		Answer:   "Orders can be cancelled within 1 hour of placement. After that, the order enters processing and cannot be cancelled. You can refuse delivery or return the item after receiving it.",
	},
	{
		Category: "Orders",
		Question: "Can I modify my order after placing it?",
		Answer:   "Order modifications (address, items) can only be made within 30 minutes of placing the order. Contact customer support immediately if you need to make changes.",
	},
	{
		Category: "Account",
		Question: "How do I reset my password?",
		Answer:   "Click \"Forgot Password\" on the login page, enter your email, and follow the instructions in the reset email. The link expires after 24 hours.",
	},
	{
		Category: "Warranty",
		Question: "What warranty do your products have?",
		Answer:   "Electronics come with a 1-year manufacturer warranty. Extended warranties (2 or 3 years) are available for purchase. Home goods have a 90-day warranty against defects.",
	},
	{
		Category: "Warranty",
		Question: "How do I make a warranty claim?",
		Answer:   "Contact customer support with your order number and description of the issue. We will guide you through the warranty claim process, which typically takes 5-7 business days.",
	},
}

// FAQ returns the full FAQ corpus.
func FAQ() []FAQItem {
	return faqData
}

// FAQContext renders the FAQ corpus as a prompt fragment, grouped by category.
// Categories appear in the order they first occur in faqData so the output is
// deterministic across processes.
func FAQContext() string {
	var categories []string
	grouped := map[string][]FAQItem{}
	for _, item := range faqData {
		if _, ok := grouped[item.Category]; !ok {
			categories = append(categories, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	var sb strings.Builder
	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("\n### %s\n", category))
		for _, item := range grouped[category] {
			sb.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", item.Question, item.Answer))
		}
	}

	return strings.TrimSpace(sb.String())
}
