package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sosubot/ppcalc/observe"
)

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "ppcalc",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "zipkin"},
	}

	err := cfg.Validate()
	fmt.Println(errors.Is(err, observe.ErrInvalidTracingExporter))
	// Output:
	// true
}

func ExampleStageMeta_SpanName() {
	meta := observe.StageMeta{Stage: observe.StageDifficulty, BeatmapID: 129891}
	fmt.Println(meta.SpanName())
	fmt.Println(meta.For(observe.StagePerformance).SpanName())
	// Output:
	// ppcalc.difficulty
	// ppcalc.performance
}

func ExampleMiddleware_Run() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)
	mw := observe.NewMiddleware(nil, nil, logger)

	meta := observe.StageMeta{Stage: observe.StageFetch, BeatmapID: 75}
	err := mw.Run(context.Background(), meta, func(ctx context.Context) error {
		return errors.New("upstream 404")
	})

	fmt.Println(err)
	fmt.Println(strings.Contains(buf.String(), `"msg":"stage failed"`))
	fmt.Println(strings.Contains(buf.String(), `"beatmap.id":75`))
	// Output:
	// upstream 404
	// true
	// true
}

func ExampleParseLogLevel() {
	fmt.Println(observe.ParseLogLevel("warn"))
	fmt.Println(observe.ParseLogLevel("verbose"))
	// Output:
	// warn
	// info
}
