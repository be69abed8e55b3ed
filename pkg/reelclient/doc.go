// Package reelclient is the client side of the video API. It keeps an owned
// cache of the feed and applies likes, unlikes and views optimistically,
// rolling each one back to its own snapshot when the server rejects it and
// re-fetching the feed after every mutation.
package reelclient
