package config

// Builtin resolver and domain tables. These are defaults, not a
// registry: callers get a fresh copy and the measurement core only ever
// sees whatever list the configuration hands it.

// DefaultUDPResolvers returns the builtin table of public plain-DNS
// resolvers, drawn from the commonly benchmarked public servers.
func DefaultUDPResolvers() []Resolver {
	return []Resolver{
		{Name: "Google DNS", Address: "8.8.8.8"},
		{Name: "Google DNS 2", Address: "8.8.4.4"},
		{Name: "Cloudflare DNS", Address: "1.1.1.1"},
		{Name: "Cloudflare DNS 2", Address: "1.0.0.1"},
		{Name: "OpenDNS", Address: "208.67.222.222"},
		{Name: "OpenDNS 2", Address: "208.67.220.220"},
		{Name: "Quad9", Address: "9.9.9.9"},
		{Name: "Quad9 Secondary", Address: "149.112.112.112"},
		{Name: "Level3 DNS", Address: "4.2.2.1"},
		{Name: "Level3 DNS 2", Address: "4.2.2.2"},
		{Name: "Comodo DNS", Address: "8.26.56.26"},
		{Name: "Comodo DNS 2", Address: "8.20.247.20"},
		{Name: "CleanBrowsing", Address: "185.228.168.9"},
		{Name: "AdGuard DNS", Address: "94.140.14.14"},
		{Name: "114 DNS", Address: "114.114.114.114"},
		{Name: "114 DNS 2", Address: "114.114.115.115"},
		{Name: "AliDNS", Address: "223.5.5.5"},
		{Name: "AliDNS 2", Address: "223.6.6.6"},
		{Name: "DNSPod", Address: "119.29.29.29"},
		{Name: "Baidu DNS", Address: "180.76.76.76"},
	}
}

// DefaultDoHResolvers returns the builtin table of DoH endpoints. IP
// literal URLs avoid a bootstrap lookup through the resolver under test.
func DefaultDoHResolvers() []Resolver {
	return []Resolver{
		{Name: "Cloudflare DoH", Address: "https://1.1.1.1/dns-query"},
		{Name: "Cloudflare DoH 2", Address: "https://1.0.0.1/dns-query"},
		{Name: "Google DoH", Address: "https://8.8.8.8/dns-query"},
		{Name: "Google DoH 2", Address: "https://8.8.4.4/dns-query"},
	}
}

// DefaultUDPDomains returns the ordered domain list for UDP mode. The
// mix leans on sites resolvable from networks where the builtin
// Chinese resolvers are relevant.
func DefaultUDPDomains() []string {
	return []string{
		"baidu.com",
		"bing.com",
		"zhihu.com",
		"douban.com",
		"tieba.baidu.com",
		"taobao.com",
		"tmall.com",
		"jd.com",
		"weibo.com",
		"qq.com",
		"toutiao.com",
		"douyin.com",
		"bilibili.com",
		"iqiyi.com",
		"youku.com",
		"sina.com.cn",
		"163.com",
		"sohu.com",
		"csdn.net",
		"cnblogs.com",
		"aliyun.com",
		"mi.com",
		"huawei.com",
		"meituan.com",
		"ctrip.com",
		"12306.cn",
		"alipay.com",
		"ximalaya.com",
		"qidian.com",
		"gov.cn",
	}
}

// DefaultDoHDomains returns the ordered domain list for DoH mode.
func DefaultDoHDomains() []string {
	return []string{
		"google.com",
		"facebook.com",
		"youtube.com",
		"amazon.com",
		"yahoo.com",
		"reddit.com",
		"wikipedia.org",
		"ebay.com",
		"linkedin.com",
		"netflix.com",
		"cnn.com",
		"nytimes.com",
		"apple.com",
		"microsoft.com",
		"imdb.com",
		"instagram.com",
		"paypal.com",
		"walmart.com",
		"npr.org",
		"weather.com",
		"zoom.us",
		"dropbox.com",
		"stackoverflow.com",
		"github.com",
		"twitch.tv",
		"bbc.com",
		"forbes.com",
		"bloomberg.com",
		"wired.com",
		"craigslist.org",
	}
}
