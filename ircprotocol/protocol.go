package ircprotocol

import "time"

// Protocol constants.
const (
	// Delimiter terminates every protocol line on the wire.
	Delimiter = "\r\n"

	// ChannelPrefix marks a channel target. PRIVMSG targets without it are
	// direct messages.
	ChannelPrefix = "#"

	// DefaultPort is used when an address does not name a port.
	DefaultPort = "6667"

	// DefaultChunkSize is the size of a single transport read.
	DefaultChunkSize = 8192

	// ConnectionTimeout is the timeout for establishing connections.
	ConnectionTimeout = 10 * time.Second

	// WriteTimeout bounds a single outbound command write.
	WriteTimeout = 10 * time.Second

	// NickServ is the services bot that handles IDENTIFY.
	NickServ = "NickServ"
)

// Numeric reply codes used as classification keys.
const (
	ReplyWelcome           = 1
	ReplyYourHost          = 2
	ReplyCreated           = 3
	ReplyMyInfo            = 4
	ReplyISupport          = 5
	ReplyLUserClient       = 251
	ReplyLUserOp           = 252
	ReplyLUserUnknown      = 253
	ReplyLUserChannels     = 254
	ReplyLUserMe           = 255
	ReplyLocalUsers        = 265
	ReplyGlobalUsers       = 266
	ReplyMOTD              = 372
	ReplyMOTDStart         = 375
	ReplyTooManyChannels   = 405
	ReplyChannelIsFull     = 471
	ReplyInviteOnlyChannel = 473
	ReplyBannedFromChannel = 474
)

