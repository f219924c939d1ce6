package normalizer

import "strings"

// platformCategory pairs a category label with the platform-name keywords
// that select it. Categories are checked in declaration order and the first
// match wins, so more specific categories must come before broader ones.
type platformCategory struct {
	name     string
	keywords []string
}

var platformCategories = []platformCategory{
	{"social_media", []string{"facebook", "twitter", "instagram", "tiktok", "snapchat", "threads", "mastodon", "bluesky", "myspace", "weibo", "vk"}},
	{"professional", []string{"linkedin", "xing", "glassdoor", "indeed", "angellist", "crunchbase"}},
	{"code", []string{"github", "gitlab", "bitbucket", "stackoverflow", "sourceforge", "codeberg", "replit", "kaggle", "hackerrank", "leetcode"}},
	{"gaming", []string{"steam", "twitch", "xbox", "playstation", "epicgames", "riot", "leagueoflegends", "roblox", "minecraft", "itch", "chess"}},
	{"dating", []string{"tinder", "bumble", "hinge", "okcupid", "badoo", "grindr", "match"}},
	{"forum", []string{"reddit", "quora", "4chan", "hackernews", "discourse", "forum"}},
	{"creative", []string{"behance", "dribbble", "deviantart", "artstation", "flickr", "500px", "vimeo", "soundcloud", "bandcamp", "pinterest", "youtube"}},
	{"messaging", []string{"telegram", "whatsapp", "signal", "discord", "slack", "kik", "viber", "wechat", "line"}},
	{"blogging", []string{"medium", "blogger", "wordpress", "tumblr", "substack", "livejournal", "ghost"}},
	{"commerce", []string{"ebay", "etsy", "amazon", "shopify", "depop", "vinted", "poshmark", "fiverr", "upwork"}},
	{"crypto", []string{"coinbase", "binance", "kraken", "opensea", "metamask", "bitcoin", "ethereum", "crypto"}},
}

// CategorizePlatform maps a platform name to a broad category via
// case-insensitive keyword substring matching. Unmatched names fall into
// "other".
func CategorizePlatform(platformName string) string {
	lowered := strings.ToLower(platformName)
	for _, category := range platformCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lowered, keyword) {
				return category.name
			}
		}
	}
	return "other"
}
