// Copyright 2025 The longmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package longmap

import "fmt"

// nextTwinPrime returns the smallest p >= n such that p and p-2 are
// both prime. The twin-prime property is what keeps probing correct:
// any jump in [1, p-2] is coprime with p, so a probe sequence visits
// every slot before repeating. The smallest capacity handed out is 5,
// which keeps the jump range [1, p-2] non-degenerate.
func nextTwinPrime(n int) int {
	if n > maxTwinPrime {
		panic(fmt.Sprintf("longmap: no supported twin prime capacity >= %d", n))
	}
	if n <= 5 {
		return 5
	}
	p := n
	if p%2 == 0 {
		p++
	}
	for ; ; p += 2 {
		if isPrime(p) && isPrime(p-2) {
			return p
		}
	}
}

// isPrime reports whether p is prime. Capacities never exceed
// maxTwinPrime (< 2^31), so sqrt-bounded trial division divides by at
// most ~7700 candidates and only runs during rebuilds.
func isPrime(p int) bool {
	switch {
	case p < 2:
		return false
	case p%2 == 0:
		return p == 2
	case p%3 == 0:
		return p == 3
	}
	for d := 5; d*d <= p; d += 6 {
		if p%d == 0 || p%(d+2) == 0 {
			return false
		}
	}
	return true
}
