// Package metrics exports set table statistics to Prometheus.
package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fzft/go-chainset/set"
)

const namespace = "chainset"

// StatsSource is implemented by *set.Set.
type StatsSource interface {
	Stats() set.Stats
}

// Collector reads a set's statistics on every scrape. Sets are not safe for
// concurrent use, so when the set is mutated from another goroutine the same
// lock must guard both.
type Collector struct {
	src StatsSource
	mu  sync.Locker

	capacity     *prom.Desc
	size         *prom.Desc
	loadFactor   *prom.Desc
	usedBuckets  *prom.Desc
	longestChain *prom.Desc
	rehashes     *prom.Desc
}

// NewCollector returns a collector labelled with name. mu may be nil.
func NewCollector(name string, src StatsSource, mu sync.Locker) *Collector {
	labels := prom.Labels{"set": name}
	desc := func(metric, help string) *prom.Desc {
		return prom.NewDesc(prom.BuildFQName(namespace, "", metric), help, nil, labels)
	}
	return &Collector{
		src:          src,
		mu:           mu,
		capacity:     desc("capacity", "Number of buckets in the table"),
		size:         desc("size", "Number of keys stored"),
		loadFactor:   desc("load_factor", "Keys per bucket"),
		usedBuckets:  desc("used_buckets", "Buckets holding at least one key"),
		longestChain: desc("longest_chain", "Length of the longest bucket chain"),
		rehashes:     desc("rehashes", "Table rehashes since the table was last replaced"),
	}
}

func (c *Collector) Describe(ch chan<- *prom.Desc) {
	ch <- c.capacity
	ch <- c.size
	ch <- c.loadFactor
	ch <- c.usedBuckets
	ch <- c.longestChain
	ch <- c.rehashes
}

func (c *Collector) Collect(ch chan<- prom.Metric) {
	if c.mu != nil {
		c.mu.Lock()
	}
	st := c.src.Stats()
	if c.mu != nil {
		c.mu.Unlock()
	}

	ch <- prom.MustNewConstMetric(c.capacity, prom.GaugeValue, float64(st.Capacity))
	ch <- prom.MustNewConstMetric(c.size, prom.GaugeValue, float64(st.Size))
	ch <- prom.MustNewConstMetric(c.loadFactor, prom.GaugeValue, st.LoadFactor)
	ch <- prom.MustNewConstMetric(c.usedBuckets, prom.GaugeValue, float64(st.UsedBuckets))
	ch <- prom.MustNewConstMetric(c.longestChain, prom.GaugeValue, float64(st.LongestChain))
	ch <- prom.MustNewConstMetric(c.rehashes, prom.GaugeValue, float64(st.Rehashes))
}

// Register builds a collector for src and registers it with reg. A nil reg
// gets a fresh registry, which is returned.
func Register(reg *prom.Registry, name string, src StatsSource, mu sync.Locker) (*prom.Registry, error) {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	if err := reg.Register(NewCollector(name, src, mu)); err != nil {
		return nil, err
	}
	return reg, nil
}
