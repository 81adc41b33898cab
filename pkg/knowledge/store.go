package knowledge

import "strings"

// StoreContext returns the ShopEase store facts as a prompt fragment.
func StoreContext() string {
	return strings.TrimSpace(`
### About ShopEase
ShopEase is an online electronics and home goods retailer founded in 2018. We pride ourselves on competitive prices, fast shipping, and excellent customer service.

### Store Hours & Contact
- Online store: 24/7
- Customer Support: Monday-Friday 8 AM - 8 PM EST, Saturday 9 AM - 5 PM EST
- Phone: 1-800-SHOP-EASE (1-800-746-7327)
- Email: support@shopease.com
- Live Chat: Available during support hours

### Product Categories
- Electronics: Phones, laptops, tablets, accessories, cables
- Home Appliances: Kitchen appliances, cleaning, smart home devices
- Audio & Video: TVs, speakers, headphones, soundbars
- Gaming: Consoles, games, controllers, gaming accessories
- Office: Monitors, keyboards, mice, desk accessories

### Pricing & Promotions
- Price Match Guarantee: We match prices from Amazon, Best Buy, and Walmart within 14 days of purchase
- Newsletter subscribers get 10% off their first order
- Free shipping on orders over $50
- Seasonal sales: Black Friday, Cyber Monday, Summer Sale, Back to School

### Membership Program (ShopEase Plus)
- Cost: $49/year
- Benefits:
  - Free 2-day shipping on all orders
  - Exclusive member-only discounts (15-20% off)
  - Early access to sales and new products
  - Extended return window (45 days instead of 30)
  - Priority customer support

### Current Promotions
- Free shipping on all orders over $50
- 20% off all headphones this month
- Buy 2 get 1 free on phone cases and accessories
`)
}
