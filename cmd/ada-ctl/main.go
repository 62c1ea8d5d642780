// Ada display control CLI
// Sends emotion, pattern and tuning commands to a running display server
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-ada/pkg/protocol"
)

const defaultServer = "ws://localhost:8765/ws/control"

type options struct {
	server string

	valence   float64
	arousal   float64
	certainty float64
	mode      string

	pattern string
	clear   bool
	fps     int
	quality int
	count   int
	status  bool
}

func main() {
	opts := parseFlags()

	conn, _, err := websocket.DefaultDialer.Dial(opts.server, nil)
	if err != nil {
		fatalf("connect to %s: %v", opts.server, err)
	}
	defer conn.Close()

	// The server greets every controller with a status snapshot
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, greeting, err := conn.ReadMessage()
	if err != nil {
		fatalf("read greeting: %v", err)
	}

	if opts.status {
		printStatus(greeting)
		return
	}

	for _, msg := range buildMessages(opts) {
		data, err := msg.Bytes()
		if err != nil {
			fatalf("encode %s: %v", msg.Type, err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			fatalf("send %s: %v", msg.Type, err)
		}
		fmt.Printf("sent %s\n", msg.Type)
	}

	// Confirm the server applied everything before disconnecting
	req, _ := protocol.NewGetStatusMessage()
	data, _ := req.Bytes()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		fatalf("request status: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, reply, err := conn.ReadMessage(); err == nil {
		printStatus(reply)
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.server, "server", defaultServer, "Control websocket URL")

	flag.Float64Var(&opts.valence, "valence", math.NaN(), "Mood valence (-1.0 to 1.0)")
	flag.Float64Var(&opts.arousal, "arousal", math.NaN(), "Mood arousal (0.0 to 1.0)")
	flag.Float64Var(&opts.certainty, "certainty", math.NaN(), "Certainty (0.0 to 1.0)")
	flag.StringVar(&opts.mode, "mode", "", "Mode: idle, listening, thinking, talking")

	flag.StringVar(&opts.pattern, "pattern", "", "Load a built-in pattern (raccoon, orb, aurora)")
	flag.BoolVar(&opts.clear, "clear", false, "Fade the display to empty")
	flag.IntVar(&opts.fps, "fps", 0, "Stream frame rate (1-30)")
	flag.IntVar(&opts.quality, "quality", 0, "JPEG quality (30-95)")
	flag.IntVar(&opts.count, "count", 0, "Particle count override")
	flag.BoolVar(&opts.status, "status", false, "Print the current status and exit")

	happy := flag.Bool("happy", false, "Happy preset")
	calm := flag.Bool("calm", false, "Calm preset")
	thinking := flag.Bool("thinking", false, "Thinking preset")
	love := flag.Bool("love", false, "Love preset")

	flag.Parse()

	switch {
	case *happy:
		opts.valence, opts.arousal = 0.8, 0.7
		if opts.mode == "" {
			opts.mode = "talking"
		}
	case *calm:
		opts.valence, opts.arousal = 0.2, 0.2
		if opts.mode == "" {
			opts.mode = "idle"
		}
	case *thinking:
		opts.valence, opts.arousal = 0.0, 0.5
		opts.mode = "thinking"
	case *love:
		opts.valence, opts.arousal = 0.9, 0.6
		if opts.mode == "" {
			opts.mode = "talking"
		}
	}

	if !opts.hasWork() {
		flag.Usage()
		os.Exit(1)
	}
	return opts
}

func (o options) hasWork() bool {
	return o.status || o.clear || o.pattern != "" || o.mode != "" ||
		o.fps != 0 || o.quality != 0 || o.count != 0 ||
		!math.IsNaN(o.valence) || !math.IsNaN(o.arousal) || !math.IsNaN(o.certainty)
}

func buildMessages(opts options) []*protocol.Message {
	var msgs []*protocol.Message

	add := func(msg *protocol.Message, err error) {
		if err != nil {
			fatalf("build message: %v", err)
		}
		msgs = append(msgs, msg)
	}

	emotion := protocol.EmotionData{Mode: opts.mode}
	hasEmotion := opts.mode != ""
	if !math.IsNaN(opts.valence) {
		v := opts.valence
		emotion.Valence = &v
		hasEmotion = true
	}
	if !math.IsNaN(opts.arousal) {
		a := opts.arousal
		emotion.Arousal = &a
		hasEmotion = true
	}
	if !math.IsNaN(opts.certainty) {
		c := opts.certainty
		emotion.Certainty = &c
		hasEmotion = true
	}
	if hasEmotion {
		add(protocol.NewSetEmotionMessage(emotion))
	}

	if opts.pattern != "" {
		add(protocol.NewLoadPatternMessage(opts.pattern))
	}
	if opts.clear {
		add(protocol.NewClearMessage())
	}
	if opts.fps != 0 {
		add(protocol.NewSetFPSMessage(opts.fps))
	}
	if opts.quality != 0 {
		add(protocol.NewSetQualityMessage(opts.quality))
	}
	if opts.count != 0 {
		count := opts.count
		add(protocol.NewSetConfigMessage(protocol.ConfigPatch{ParticleCount: &count}))
	}

	return msgs
}

func printStatus(raw []byte) {
	msg, err := protocol.ParseMessage(raw)
	if err != nil {
		fatalf("parse status: %v", err)
	}
	status, err := msg.GetStatusData()
	if err != nil {
		fatalf("decode status: %v", err)
	}

	pretty, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		fatalf("format status: %v", err)
	}
	fmt.Println(string(pretty))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
