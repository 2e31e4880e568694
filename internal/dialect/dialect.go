// Package dialect renders destination-specific text fragments for report
// delivery. Every destination flavor (chat markdown variants, plain text,
// push notifications) is a closed Dialect bound to an immutable template
// record; all rendering is a pure function of the record and the data.
package dialect

// Dialect identifies a destination's markup flavor.
type Dialect string

const (
	Feishu     Dialect = "feishu"
	DingTalk   Dialect = "dingtalk"
	WeWork     Dialect = "wework"
	WeWorkText Dialect = "wework_text" // plain-text batch headers for personal WeChat relay
	Telegram   Dialect = "telegram"
	Ntfy       Dialect = "ntfy"
	Bark       Dialect = "bark"
	Slack      Dialect = "slack"
)

// Emoji tier thresholds for word banners.
const (
	HotThreshold    = 10 // 🔥
	RisingThreshold = 5  // 📈
)

// Options carries the configurable literals that feed into template
// resolution. Zero value is usable.
type Options struct {
	// SectionSeparator is the horizontal-rule literal used by the Feishu
	// dialect between sections and word groups.
	SectionSeparator string
}

// DefaultSectionSeparator is used when Options.SectionSeparator is empty.
const DefaultSectionSeparator = "━━━━━━━━━━━━━━━"

// templates is the per-dialect record of fragment format strings. A zero
// record renders every fragment empty, which is exactly the degraded
// behavior required for unknown dialects.
type templates struct {
	batchHeader string // args: batch index, total batches

	baseHeader      string // arg: total title count
	baseHeaderExtra string // arg: timestamp (metadata block, DingTalk only)
	baseFooter      string // arg: timestamp
	updateNotice    string // args: remote version, current version

	statsBanner     string
	newTitlesBanner string // arg: new title count
	failBanner      string

	wordHot    string // args: sequence, word, count
	wordRising string // args: sequence, word, count
	wordMarker string // args: sequence, word, count

	sourceBanner string // args: source name, title count
	failedLine   string // arg: source id
	statsSep     string
}

// templatesFor resolves the template record for d. sep is the Feishu
// section separator literal.
func templatesFor(d Dialect, sep string) templates {
	if sep == "" {
		sep = DefaultSectionSeparator
	}

	switch d {
	case WeWork, Bark:
		return templates{
			batchHeader:     batchHeaderFor(d),
			baseHeader:      "**Total titles:** %d\n\n\n\n",
			baseFooter:      "\n\n\n> Updated: %s",
			updateNotice:    "\n> trendwire found new version **%s**, current **%s**",
			statsBanner:     "📊 **Trending keywords**\n\n",
			newTitlesBanner: "\n\n\n\n🆕 **Newly surfaced titles** (%d total)\n\n",
			failBanner:      failBannerFor(d),
			wordHot:         "🔥 %s **%s** : **%d** items\n\n",
			wordRising:      "📈 %s **%s** : **%d** items\n\n",
			wordMarker:      "📌 %s **%s** : %d items\n\n",
			sourceBanner:    "**%s** (%d items):\n\n",
			failedLine:      "  • %s\n",
			statsSep:        "\n\n\n\n",
		}
	case Telegram:
		return templates{
			batchHeader:     "<b>[Batch %d/%d]</b>\n\n",
			baseHeader:      "Total titles: %d\n\n",
			baseFooter:      "\n\nUpdated: %s",
			updateNotice:    "\ntrendwire found new version %s, current %s",
			statsBanner:     "📊 Trending keywords\n\n",
			newTitlesBanner: "\n\n🆕 Newly surfaced titles (%d total)\n\n",
			failBanner:      "\n\n⚠️ Sources with fetch failures:\n\n",
			wordHot:         "🔥 %s %s : %d items\n\n",
			wordRising:      "📈 %s %s : %d items\n\n",
			wordMarker:      "📌 %s %s : %d items\n\n",
			sourceBanner:    "%s (%d items):\n\n",
			failedLine:      "  • %s\n",
			statsSep:        "\n\n",
		}
	case Ntfy:
		return templates{
			batchHeader:     "**[Batch %d/%d]**\n\n",
			baseHeader:      "**Total titles:** %d\n\n",
			baseFooter:      "\n\n> Updated: %s",
			updateNotice:    "\n> trendwire found new version **%s**, current **%s**",
			statsBanner:     "📊 **Trending keywords**\n\n",
			newTitlesBanner: "\n\n🆕 **Newly surfaced titles** (%d total)\n\n",
			failBanner:      "\n\n⚠️ **Sources with fetch failures:**\n\n",
			wordHot:         "🔥 %s **%s** : **%d** items\n\n",
			wordRising:      "📈 %s **%s** : **%d** items\n\n",
			wordMarker:      "📌 %s **%s** : %d items\n\n",
			sourceBanner:    "**%s** (%d items):\n\n",
			failedLine:      "  • %s\n",
			statsSep:        "\n\n",
		}
	case Feishu:
		return templates{
			batchHeader:     "**[Batch %d/%d]**\n\n",
			baseHeader:      "", // Feishu card carries its own header fields
			baseFooter:      "\n\n<font color='grey'>Updated: %s</font>",
			updateNotice:    "\n<font color='grey'>trendwire found new version %s, current %s</font>",
			statsBanner:     "📊 **Trending keywords**\n\n",
			newTitlesBanner: "\n" + sep + "\n\n🆕 **Newly surfaced titles** (%d total)\n\n",
			failBanner:      "\n" + sep + "\n\n⚠️ **Sources with fetch failures:**\n\n",
			wordHot:         "🔥 <font color='grey'>%s</font> **%s** : <font color='red'>%d</font> items\n\n",
			wordRising:      "📈 <font color='grey'>%s</font> **%s** : <font color='orange'>%d</font> items\n\n",
			wordMarker:      "📌 <font color='grey'>%s</font> **%s** : %d items\n\n",
			sourceBanner:    "**%s** (%d items):\n\n",
			failedLine:      "  • <font color='red'>%s</font>\n",
			statsSep:        "\n" + sep + "\n\n",
		}
	case DingTalk:
		return templates{
			batchHeader:     "**[Batch %d/%d]**\n\n",
			baseHeader:      "**Total titles:** %d\n\n",
			baseHeaderExtra: "**Time:** %s\n\n**Type:** Trend analysis report\n\n---\n\n",
			baseFooter:      "\n\n> Updated: %s",
			updateNotice:    "\n> trendwire found new version **%s**, current **%s**",
			statsBanner:     "📊 **Trending keywords**\n\n",
			newTitlesBanner: "\n---\n\n🆕 **Newly surfaced titles** (%d total)\n\n",
			failBanner:      "\n---\n\n⚠️ **Sources with fetch failures:**\n\n",
			wordHot:         "🔥 %s **%s** : **%d** items\n\n",
			wordRising:      "📈 %s **%s** : **%d** items\n\n",
			wordMarker:      "📌 %s **%s** : %d items\n\n",
			sourceBanner:    "**%s** (%d items):\n\n",
			failedLine:      "  • **%s**\n",
			statsSep:        "\n---\n\n",
		}
	case Slack:
		return templates{
			batchHeader:     "*[Batch %d/%d]*\n\n",
			baseHeader:      "*Total titles:* %d\n\n",
			baseFooter:      "\n\n_Updated: %s_",
			updateNotice:    "\n_trendwire found new version *%s*, current *%s_",
			statsBanner:     "📊 *Trending keywords*\n\n",
			newTitlesBanner: "\n\n🆕 *Newly surfaced titles* (%d total)\n\n",
			// Slack inherits the upstream omission: failures emit unbannered.
			wordHot:      "🔥 %s *%s* : *%d* items\n\n",
			wordRising:   "📈 %s *%s* : *%d* items\n\n",
			wordMarker:   "📌 %s *%s* : %d items\n\n",
			sourceBanner: "*%s* (%d items):\n\n",
			failedLine:   "  • %s\n",
			statsSep:     "\n\n",
		}
	case WeWorkText:
		// Only the plain batch header differs from WeWork; content is
		// partitioned with the WeWork dialect and stripped at send time.
		t := templatesFor(WeWork, sep)
		t.batchHeader = "[Batch %d/%d]\n\n"
		return t
	default:
		return templates{}
	}
}

func batchHeaderFor(d Dialect) string {
	if d == Bark {
		return "[Batch %d/%d]\n\n"
	}
	return "**[Batch %d/%d]**\n\n"
}

func failBannerFor(d Dialect) string {
	// Bark never carried a failure banner upstream; its failure lines
	// emit unbannered.
	if d == Bark {
		return ""
	}
	return "\n\n\n\n⚠️ **Sources with fetch failures:**\n\n"
}
