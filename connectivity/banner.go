package connectivity

import "afya-chat/i18n"

type BannerMode string

const (
	BannerHidden    BannerMode = "hidden"
	BannerExpanded  BannerMode = "expanded"
	BannerCollapsed BannerMode = "collapsed"
)

// Banner is the presentation state derived from reachability.
type Banner struct {
	Mode      BannerMode
	Reachable bool
	// Persistent banners never auto-collapse
	Persistent bool
}

func (b Banner) Text(ctx i18n.Context) string {
	if b.Reachable {
		return ctx.T("onlineMode")
	}
	return ctx.T("offlineMode")
}
