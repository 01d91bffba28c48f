/**
 * Copyright 2025-present AgroLink
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"

	"agrolink/internal/common"
	"agrolink/internal/config"
	"agrolink/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printOffer(offer models.Offer, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %-28s entry #%-3d %8s SOL  [%s]\n",
		symbol, offer.Id, offer.EntryId, offer.PriceSOL.String(), offer.Status)
	fmt.Printf("%s      buyer: %s, created: %s\n",
		common.BoxDetailPrefix(isLast), offer.Buyer, offer.CreatedAt.Format("2006-01-02 15:04:05"))
}

func printOffers(title string, offers []models.Offer) {
	common.PrintHeader(title, common.DefaultWidth)
	for i, offer := range offers {
		printOffer(offer, i == len(offers)-1)
	}
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d offers", len(offers)), common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	submitEntry := flag.Int64("submit", 0, "Submit an offer against the given catalog entry id")
	price := flag.String("price", "", "Offer price in SOL (used with -submit)")
	acceptId := flag.String("accept", "", "Accept the pending offer with this id")
	declineId := flag.String("decline", "", "Decline the pending offer with this id")
	shipId := flag.String("ship", "", "Mark the accepted offer with this id as shipped")
	incoming := flag.Bool("incoming", false, "List incoming offers for the session's farm")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	switch {
	case *submitEntry > 0:
		offerPrice, err := decimal.NewFromString(*price)
		if err != nil {
			zap.L().Fatal("Invalid price", zap.String("price", *price), zap.Error(err))
		}
		offer, err := services.MarketService.SubmitOffer(ctx, *submitEntry, offerPrice)
		if err != nil {
			zap.L().Fatal("Failed to submit offer", zap.Error(err))
		}
		fmt.Printf("Offer %s submitted at %s SOL\n", offer.Id, offer.PriceSOL.String())

	case *acceptId != "":
		offer, err := services.MarketService.AcceptOffer(ctx, *acceptId)
		if err != nil {
			zap.L().Fatal("Failed to accept offer", zap.Error(err))
		}
		fmt.Printf("Offer %s accepted, entry #%d marked owned\n", offer.Id, offer.EntryId)

	case *declineId != "":
		offer, err := services.MarketService.DeclineOffer(ctx, *declineId)
		if err != nil {
			zap.L().Fatal("Failed to decline offer", zap.Error(err))
		}
		fmt.Printf("Offer %s declined\n", offer.Id)

	case *shipId != "":
		offer, err := services.MarketService.ShipOffer(ctx, *shipId)
		if err != nil {
			zap.L().Fatal("Failed to ship offer", zap.Error(err))
		}
		fmt.Printf("Offer %s shipped\n", offer.Id)

	case *incoming:
		offers, err := services.MarketService.FarmOffers(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list incoming offers", zap.Error(err))
		}
		printOffers("INCOMING OFFERS", offers)

	default:
		offers, err := services.MarketService.MyOffers(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list offers", zap.Error(err))
		}
		printOffers("MY OFFERS", offers)
	}
}
