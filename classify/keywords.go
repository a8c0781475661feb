package classify

// defaultKeywords lists known social-network, promotional and
// job-alert senders, matched as substrings against display names and
// addresses. This is configuration, not behavior: extend it via the
// --keywords file instead of editing extraction code.
var defaultKeywords = []string{
	"facebook.com", "facebookmail.com", "fb.com", "facebook",
	"instagram.com", "instagram",
	"linkedin.com", "linkedin", "linkedinmail.com", "jobalerts-noreply@linkedin.com", "linkedin job alerts",
	"twitter.com", "x.com", "twitter",
	"pinterest.com", "pinterest",
	"tiktok.com", "tiktok",
	"snapchat.com", "snapchat",
	"reddit.com", "redditmail.com", "reddit",
	"youtube.com", "youtube",
	"quora.com", "quora",
	"nextdoor.com", "nextdoor",
	"flipkart", "amazon india", "amazon.com", "amazon",
	"myntra", "myntra.com",
	"gmail", "google", "google play", "google photos", "google drive",
	"badoo.com", "badoo",
	"internshala", "topmate.io", "internshala.com", "tata", "jobscan",
	"alerts", "monsterindia.com", "foundit", "oracle.com", "careers",
	"no-reply", "job", "jobs", "india", "noreply", "participate",
	"cuvette", "cuvette.tech", "myworkdayjobs", "myworkday", "myworkday.com",
	"indeed.com", "indeed", "indeed.co.in", "indeed.co.uk", "indeed.co.jp",
	"tax", "crypto", "binance", "do_not_reply", "contests", "mercer",
	"hasura", "jobnotification",
	"credit", "creditmantri", "creditmantri.com",
	"zomato.com", "zomato", "swiggy.com", "swiggy",
	"unacademy.com", "unacademy", "cesc", "jio.com", "jio",
	"paytm.com", "paytm", "grammarly.com", "grammarly", "irctc.co.in", "irctc",
	"snapdeal.com", "snapdeal", "toornament", "udemy.com", "udemy",
	"coursera.org", "coursera", "coursera.com", "skillshare.com", "skillshare",
	"edx.org", "edx", "edx.com", "gifting", "gift", "giftcards",
}

// DefaultKeywords returns a copy of the built-in noise keyword list.
func DefaultKeywords() []string {
	keywords := make([]string, len(defaultKeywords))
	copy(keywords, defaultKeywords)
	return keywords
}
