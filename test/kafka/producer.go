// этот код не зависит от приложения,
// и нужен только для ручной проверки приёма заказов через кафку
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

func main() {
	brokerAddress := flag.String("broker", "localhost:9092", "kafka broker address")
	topic := flag.String("topic", "order-intake", "intake topic")
	flag.Parse()

	// форма заказа в том же виде, в каком её заполняют в админке
	// картинка - 1x1 прозрачный PNG
	message := `{
           "fullName": "Asha Verma",
           "phone": "98765 43210",
           "address": "12 MG Road, Indore",
           "productName": "Anarkali Suit",
           "price": "1499",
           "paymentStatus": false,
           "productImage": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
        }`

	writer := &kafka.Writer{
		Addr:     kafka.TCP(*brokerAddress),
		Topic:    *topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	log.Println("Sending intake form to Kafka...")
	err := writer.WriteMessages(context.Background(),
		kafka.Message{
			Value: []byte(message),
		},
	)
	if err != nil {
		log.Fatalf("Failed to write message: %v", err)
	}
	fmt.Println("Message sent successfully!")
}
