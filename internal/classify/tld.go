package classify

// publicTLDs is a curated, high-frequency subset of the public suffix
// list used to validate link-finder matches. A curated set keeps the
// classifier dependency-free while covering the overwhelming majority
// of real clipboard links.
var publicTLDs = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"mil": true, "int": true, "info": true, "biz": true, "name": true,
	"pro": true, "app": true, "dev": true, "io": true, "co": true,
	"ai": true, "me": true, "tv": true, "xyz": true, "top": true,
	"site": true, "online": true, "tech": true, "store": true, "blog": true,
	"cloud": true, "design": true, "shop": true, "live": true, "news": true,
	"us": true, "uk": true, "ca": true, "de": true, "fr": true,
	"jp": true, "cn": true, "in": true, "au": true, "br": true,
	"ru": true, "nl": true, "es": true, "it": true, "se": true,
	"ch": true, "no": true, "fi": true, "dk": true, "pl": true,
	"kr": true, "mx": true, "nz": true, "za": true, "sg": true,
	"hk": true, "tw": true, "be": true, "at": true, "ie": true,
}

// isPublicTLD reports whether host's rightmost label is a recognized
// TLD.
func isPublicTLD(lastLabel string) bool {
	return publicTLDs[lastLabel]
}
