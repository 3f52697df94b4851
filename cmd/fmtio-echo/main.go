// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command fmtio-echo is a line-echo server exercising the fmtio socket
// lifecycle: create, bind, listen, accept, line-iterate, write back.
//
// Try it with:
//
//	fmtio-echo --port 7777 &
//	nc localhost 7777
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"code.hybscloud.com/fmtio"
)

var cli struct {
	Host    string `help:"Address to bind." default:"*"`
	Port    int    `help:"Port to listen on." default:"7777"`
	Backlog int    `help:"Listen queue limit." default:"128"`
	Debug   bool   `help:"Enable debug logging."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("fmtio-echo"),
		kong.Description("Line-echo server built on fmtio formatted sockets."))

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))

	kctx.FatalIfErrorf(run(log))
}

func run(log *slog.Logger) error {
	server, err := fmtio.NewSocket(fmtio.TCP, fmtio.IPv4)
	if err != nil {
		return err
	}
	defer server.Close()

	if err := server.Bind(cli.Host, cli.Port); err != nil {
		return err
	}
	if err := server.Listen(cli.Backlog); err != nil {
		return err
	}
	ip, port, err := server.Addr(fmtio.LocalAddr)
	if err != nil {
		return err
	}
	log.Info("listening", "addr", ip, "port", port)

	for {
		conn, err := server.Accept()
		if err != nil {
			log.Error("accept failed", "err", err)
			return err
		}
		go serve(log, conn)
	}
}

func serve(log *slog.Logger, conn *fmtio.Socket) {
	defer conn.Close()

	peer, port, err := conn.Addr(fmtio.RemoteAddr)
	if err != nil {
		log.Error("peer address", "err", err)
		return
	}
	log.Debug("connected", "peer", peer, "port", port)

	it := conn.Lines()
	for {
		line, err := it.Next()
		if fmtio.IsNoData(err) {
			log.Debug("disconnected", "peer", peer)
			return
		}
		if err != nil {
			log.Error("read failed", "peer", peer, "err", err)
			return
		}
		if _, err := conn.WriteString(line + "\n"); err != nil {
			log.Error("write failed", "peer", peer, "err", err)
			return
		}
	}
}
