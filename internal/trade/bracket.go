package trade

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"

	"github.com/ttnghia195/trade-signal-hook/internal/helper"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// PlaceBracket прогоняет сигнал по линейной цепочке
//
//	CapCheck -> Sizing -> LeverageSet -> Entry -> TakeProfit -> StopLoss -> Notify
//
// Любой шаг может оборвать прогон; уже выставленные ноги остаются жить на
// бирже, отката нет — разруливает оператор по нотификации.
//
// Потолок открытых ордеров — best-effort: счётчик читается свежим в начале
// каждого прогона, но между чтением и постановкой нет сериализации, два
// одновременных сигнала могут оба пролезть под лимит.
func (s *Service) PlaceBracket(ctx context.Context, sig models.Signal) error {
	span := opentracing.StartSpan("place_bracket")
	defer span.Finish()
	span.SetTag("pair", sig.Pair)
	span.SetTag("rate", sig.Rate)
	ctx = opentracing.ContextWithSpan(ctx, span)

	symbol := ConvertPair(sig.Pair)
	span.SetTag("symbol", symbol)

	count, err := s.ex.OpenOrderCount(ctx)
	if err != nil {
		return s.fail(ctx, span, sig, symbol, nil, ReasonOpenOrderCountUnavailable, err)
	}
	if count >= s.cfg.MaxOpenOrders {
		return s.fail(ctx, span, sig, symbol, nil, ReasonTooManyOpenOrders,
			fmt.Errorf("open orders %d >= limit %d", count, s.cfg.MaxOpenOrders))
	}

	snap, err := s.ex.Balance(ctx)
	if err != nil {
		return s.fail(ctx, span, sig, symbol, nil, ReasonBalanceUnavailable, err)
	}

	qty := ComputeQuantity(snap, sig.Rate, s.cfg.MaxOpenOrders, s.cfg.CapitalCap, s.cfg.QtyPrecision)
	if qty <= 0 {
		return s.fail(ctx, span, sig, symbol, nil, ReasonQuantityTooSmall,
			fmt.Errorf("qty rounds to zero: total=%.2f available=%.2f rate=%.4f",
				snap.TotalBalance, snap.AvailableBalance, sig.Rate))
	}

	plan := &models.BracketPlan{
		Symbol:     symbol,
		Qty:        qty,
		EntrySide:  models.SideBuy,
		TakeProfit: helper.RoundPrice(sig.Rate+s.cfg.TakeProfitOffset, s.cfg.PricePrecision),
		// формула исходного бота воспроизводится буквально: stop_loss_factor
		// 0.01 даёт стоп на 99% ниже цены (см. комментарий в конфиге)
		StopLoss: helper.RoundPrice(sig.Rate*s.cfg.StopLossFactor, s.cfg.PricePrecision),
		Leverage: s.cfg.Leverage,
	}

	// плечо строго до входа: без подтверждённого множителя маржа энтри
	// считалась бы неизвестно чем
	if err := s.ex.SetLeverage(ctx, symbol, plan.Leverage); err != nil {
		return s.fail(ctx, span, sig, symbol, plan, ReasonLeverageSetFailed, err)
	}

	entry, err := s.ex.PlaceMarket(ctx, symbol, models.SideBuy, qty)
	if err != nil {
		return s.fail(ctx, span, sig, symbol, plan, ReasonEntryOrderFailed, err)
	}

	tp, err := s.ex.PlaceConditional(ctx, symbol, models.SideSell, models.ConditionalTakeProfit, plan.TakeProfit, qty)
	if err != nil {
		// вход уже исполнен и остаётся без тейка — оператору об этом скажет нотификация
		return s.fail(ctx, span, sig, symbol, plan, ReasonTakeProfitOrderFailed, err)
	}

	sl, err := s.ex.PlaceConditional(ctx, symbol, models.SideSell, models.ConditionalStop, plan.StopLoss, qty)
	if err != nil {
		return s.fail(ctx, span, sig, symbol, plan, ReasonStopLossOrderFailed, err)
	}

	logger.Info("[%s] bracket placed: qty=%s entry=%d tp=%d sl=%d",
		symbol, helper.FormatQty(qty, s.cfg.QtyPrecision), entry.OrderID, tp.OrderID, sl.OrderID)

	s.n.Sendf("✅ Buy %s %s @ %.2f\nTP @ %.2f, SL @ %.2f\nPlaced orders: %d, %d, %d",
		helper.FormatQty(qty, s.cfg.QtyPrecision), symbol, sig.Rate,
		plan.TakeProfit, plan.StopLoss,
		entry.OrderID, tp.OrderID, sl.OrderID)

	rec := recordFromPlan(sig, plan)
	rec.EntryOrderID = entry.OrderID
	rec.TakeProfitOrderID = tp.OrderID
	rec.StopLossOrderID = sl.OrderID
	if err := s.jr.Bracket(ctx, rec); err != nil {
		logger.Error("journal bracket: %v", err)
	}

	return nil
}

// fail — единая точка обрыва: лог, нотификация, журнал, тегированная ошибка.
func (s *Service) fail(
	ctx context.Context,
	span opentracing.Span,
	sig models.Signal,
	symbol string,
	plan *models.BracketPlan,
	reason string,
	cause error,
) error {
	err := &BracketError{Reason: reason, Err: cause}

	logger.Error("[%s] bracket aborted: %v", symbol, err)
	span.SetTag("error", true)
	span.SetTag("failed_step", reason)

	s.n.Sendf("❗️ [%s] %s", symbol, err.Error())

	rec := recordFromPlan(sig, plan)
	rec.Symbol = symbol
	rec.FailedStep = reason
	if cause != nil {
		rec.Error = cause.Error()
	}
	if jerr := s.jr.Bracket(ctx, rec); jerr != nil {
		logger.Error("journal bracket: %v", jerr)
	}

	return err
}

func recordFromPlan(sig models.Signal, plan *models.BracketPlan) models.BracketRecord {
	rec := models.BracketRecord{
		Pair: sig.Pair,
		Rate: sig.Rate,
	}
	if plan != nil {
		rec.Symbol = plan.Symbol
		rec.Qty = plan.Qty
		rec.TakeProfit = plan.TakeProfit
		rec.StopLoss = plan.StopLoss
		rec.Leverage = plan.Leverage
	}
	return rec
}
