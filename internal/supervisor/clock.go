package supervisor

import (
	"os"
	"time"
)

func wallClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
