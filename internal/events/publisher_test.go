package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/alicebob/miniredis/v2"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"job-hunter-service/internal/entity"
)

func testJob() entity.JobAd {
	company := "ACME"
	salary := 1000.0
	open := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	return entity.JobAd{
		ID:             "6f1c2a4e-0000-4000-8000-000000000001",
		URL:            "https://x.test/1",
		CompanyName:    &company,
		JobTitle:       "Engineer",
		JobDescription: "desc",
		SalaryStart:    &salary,
		OpenDate:       &open,
	}
}

var _ = Describe("job created event", func() {
	It("round trips through the envelope", func() {
		job := testJob()
		e, err := NewJobCreatedEvent(job)
		Expect(err).To(BeNil())
		Expect(e.Type()).To(Equal(JobCreatedKind))
		Expect(e.Source()).To(Equal("job-hunter-api"))
		Expect(e.Subject()).To(Equal(job.ID))

		payload, err := json.Marshal(e)
		Expect(err).To(BeNil())

		got, err := DecodeJobCreated(payload)
		Expect(err).To(BeNil())
		Expect(got.ID).To(Equal(job.ID))
		Expect(got.URL).To(Equal(job.URL))
		Expect(*got.CompanyName).To(Equal("ACME"))
		Expect(*got.SalaryStart).To(Equal(1000.0))
		Expect(got.OpenDate.Equal(*job.OpenDate)).To(BeTrue())
	})

	It("rejects other event types", func() {
		e := cloudevents.NewEvent()
		e.SetID("1")
		e.SetSource("elsewhere")
		e.SetType("something.else")
		payload, err := json.Marshal(e)
		Expect(err).To(BeNil())

		_, err = DecodeJobCreated(payload)
		Expect(err).To(MatchError(ContainSubstring("unexpected event type")))
	})

	It("rejects garbage", func() {
		_, err := DecodeJobCreated([]byte("not json"))
		Expect(err).NotTo(BeNil())
	})
})

var _ = Describe("publisher", func() {
	Context("kafka", func() {
		It("sends the envelope keyed by url", func() {
			producer := mocks.NewSyncProducer(GinkgoT(), nil)
			producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
				key, err := msg.Key.Encode()
				if err != nil {
					return err
				}
				if string(key) != "https://x.test/1" {
					return errors.New("unexpected key " + string(key))
				}
				if msg.Topic != "job.created" {
					return errors.New("unexpected topic " + msg.Topic)
				}
				value, err := msg.Value.Encode()
				if err != nil {
					return err
				}
				_, err = DecodeJobCreated(value)
				return err
			})

			p := NewPublisher(NewKafkaWriterFromProducer(producer, "job.created"), "kafka")
			Expect(p.PublishJobCreated(context.TODO(), testJob())).To(Succeed())
			Expect(p.Close(context.TODO())).To(Succeed())
		})

		It("returns broker failures to the caller", func() {
			producer := mocks.NewSyncProducer(GinkgoT(), nil)
			producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

			p := NewPublisher(NewKafkaWriterFromProducer(producer, "job.created"), "kafka")
			err := p.PublishJobCreated(context.TODO(), testJob())
			Expect(errors.Is(err, sarama.ErrOutOfBrokers)).To(BeTrue())
			Expect(p.Close(context.TODO())).To(Succeed())
		})
	})

	Context("redis queue", func() {
		var (
			mr    *miniredis.Miniredis
			rdb   *redis.Client
			queue *RedisQueue
		)

		BeforeEach(func() {
			var err error
			mr, err = miniredis.Run()
			Expect(err).To(BeNil())
			rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
			queue = NewRedisQueue(rdb, "jobs:created", "jobs:created:processing")
		})

		AfterEach(func() {
			_ = rdb.Close()
			mr.Close()
		})

		It("claims and acknowledges a published event", func() {
			p := NewPublisher(queue, "redis")
			Expect(p.PublishJobCreated(context.TODO(), testJob())).To(Succeed())

			payload, err := queue.Claim(context.TODO(), time.Second)
			Expect(err).To(BeNil())
			job, err := DecodeJobCreated([]byte(payload))
			Expect(err).To(BeNil())
			Expect(job.ID).To(Equal(testJob().ID))

			processing, err := mr.List("jobs:created:processing")
			Expect(err).To(BeNil())
			Expect(processing).To(HaveLen(1))

			Expect(queue.Ack(context.TODO(), payload)).To(Succeed())
			Expect(rdb.LLen(context.TODO(), "jobs:created:processing").Val()).To(BeZero())
		})

		It("returns redis.Nil when the queue is empty", func() {
			_, err := queue.Claim(context.TODO(), 100*time.Millisecond)
			Expect(errors.Is(err, redis.Nil)).To(BeTrue())
		})

		It("requeues unacknowledged payloads", func() {
			Expect(queue.Write(context.TODO(), "", mustEvent())).To(Succeed())
			Expect(queue.Write(context.TODO(), "", mustEvent())).To(Succeed())

			_, err := queue.Claim(context.TODO(), time.Second)
			Expect(err).To(BeNil())
			_, err = queue.Claim(context.TODO(), time.Second)
			Expect(err).To(BeNil())

			n, err := queue.RequeueStale(context.TODO(), 1)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(int64(1)))

			n, err = queue.RequeueStale(context.TODO(), 10)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(int64(1)))

			pending, err := mr.List("jobs:created")
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(2))
		})
	})
})

func mustEvent() cloudevents.Event {
	e, err := NewJobCreatedEvent(testJob())
	Expect(err).To(BeNil())
	return e
}
