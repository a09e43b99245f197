package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"nanobook/pkg/exchange"
	"nanobook/pkg/itch"
	"nanobook/pkg/util"
)

// itch-replay feeds an ITCH 5.0 capture through the matching engine and
// prints per-symbol book statistics.
func main() {
	file := flag.String("file", os.Getenv("ITCH_FILE"), "path to length-framed ITCH 5.0 capture")
	flag.Parse()
	if *file == "" {
		log.Fatal("usage: itch-replay -file <capture.itch>")
	}

	logger, err := util.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	events, err := itch.ParseFile(*file)
	if err != nil {
		logger.Fatal("parse failed", zap.Error(err))
	}
	logger.Info("capture parsed", zap.String("file", *file), zap.Int("events", len(events)))

	multi := exchange.NewMultiExchange()
	applied, err := itch.Apply(multi, events)
	if err != nil {
		logger.Fatal("apply failed", zap.Error(err))
	}
	logger.Info("capture applied", zap.Int("applied", applied), zap.Int("symbols", multi.Len()))

	for _, q := range multi.BestPrices() {
		ex := multi.GetOrCreate(q.Symbol)
		fields := []zap.Field{
			zap.String("symbol", string(q.Symbol)),
			zap.Int("trades", len(ex.Trades())),
		}
		if q.Bid != nil {
			fields = append(fields, zap.Int64("bid", int64(*q.Bid)))
		}
		if q.Ask != nil {
			fields = append(fields, zap.Int64("ask", int64(*q.Ask)))
		}
		if last, ok := ex.LastTradePrice(); ok {
			fields = append(fields, zap.Int64("last", int64(last)))
		}
		logger.Info("symbol summary", fields...)
	}
}
