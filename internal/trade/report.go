package trade

import (
	"context"
	"fmt"

	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// Отчёты по запросу. Вызывающий — fire-and-forget (вебхук или команда бота),
// поэтому ошибка не пробрасывается, а уходит текстом в ту же нотификацию.

func (s *Service) AccountSummaryText(ctx context.Context) string {
	snap, err := s.ex.Balance(ctx)
	if err != nil {
		logger.Error("balance report: %v", err)
		return fmt.Sprintf("❗️ Failed to get available balance: %v", err)
	}
	return fmt.Sprintf("💰 Total balance: %.2f USDT\nAvailable balance: %.2f USDT",
		snap.TotalBalance, snap.AvailableBalance)
}

func (s *Service) OpenOrderSummaryText(ctx context.Context) string {
	count, err := s.ex.OpenOrderCount(ctx)
	if err != nil {
		logger.Error("open orders report: %v", err)
		return fmt.Sprintf("❗️ Failed to get open orders: %v", err)
	}
	return fmt.Sprintf("📋 Open orders: %d (limit %d)", count, s.cfg.MaxOpenOrders)
}
