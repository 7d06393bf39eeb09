package tui

import (
	"github.com/1imo/rss-live/internal/cache"
)

type articlesLoadedMsg struct {
	articles []cache.Article
}

type loadErrMsg struct {
	err error
}

type refreshDoneMsg struct {
	count int
	err   error
}
