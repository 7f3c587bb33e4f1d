// Command matchctl is a CLI client for a running matchd TCP server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"matchcore/internal/common"
	"matchcore/internal/transport"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the matching server")
	account := flag.String("account", "", "account id (compulsory for create/delete)")
	action := flag.String("action", "create", "action to perform: 'create', 'delete', or 'trades-since'")

	pair := flag.String("pair", "BTC/USDC", "trading pair")
	sideStr := flag.String("side", "buy", "order side: 'buy' or 'sell'")
	price := flag.String("price", "", "limit price, as a decimal string")
	amount := flag.String("amount", "", "order amount, as a decimal string")
	orderID := flag.String("order-id", "", "order id (compulsory for create/delete)")
	since := flag.Uint64("since", 0, "sequence number to replay trades after (for trades-since)")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	go readReports(conn)

	if strings.ToLower(*action) == "trades-since" {
		fmt.Printf("connected to %s, querying %s since seq %d\n", *serverAddr, *pair, *since)
		if _, err := conn.Write(transport.EncodeQuery(*pair, *since)); err != nil {
			log.Fatalf("failed to send query: %v", err)
		}
		fmt.Println("listening for reports... (press ctrl+c to exit)")
		select {}
	}

	if *account == "" || *orderID == "" {
		fmt.Println("Error: -account and -order-id are compulsory.")
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("connected to %s as account '%s'\n", *serverAddr, *account)

	cmd := common.RawCommand{OrderID: *orderID, Pair: *pair, AccountID: *account}
	switch strings.ToLower(*action) {
	case "create":
		if *price == "" || *amount == "" {
			log.Fatal("Error: -price and -amount are required for create")
		}
		cmd.Op = common.OpCreate
		cmd.Side = common.Buy
		if strings.ToLower(*sideStr) == "sell" {
			cmd.Side = common.Sell
		}
		cmd.LimitPrice = *price
		cmd.Amount = *amount
	case "delete":
		cmd.Op = common.OpDelete
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	if _, err := conn.Write(transport.EncodeCommand(cmd)); err != nil {
		log.Fatalf("failed to send command: %v", err)
	}
	fmt.Printf("-> sent %s %s\n", cmd.Op, cmd.OrderID)

	fmt.Println("listening for reports... (press ctrl+c to exit)")
	select {}
}

// readReports prints every report the server sends back, until the
// connection closes.
func readReports(conn net.Conn) {
	buf := make([]byte, 4*1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			os.Exit(0)
		}
		report, err := transport.ParseReport(buf[:n])
		if err != nil {
			log.Printf("error parsing report: %v", err)
			continue
		}
		switch report.Kind {
		case transport.ErrorReport:
			fmt.Printf("\n[SERVER ERROR] %s\n", report.ErrText)
		case transport.TradeReport:
			t := report.Trade
			fmt.Printf("\n[TRADE] %s buy=%s sell=%s price=%s amount=%s\n", t.Pair, t.BuyOrderID, t.SellOrderID, t.Price, t.Amount)
		}
	}
}
