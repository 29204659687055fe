package lightfunnels

const accountQuery = `
  query app {
    account {
      id
      email
      account_name
      image {
        url
      }
    }
  }
`

const accountStoresQuery = `
  query AccountStoresQuery {
    account {
      stores {
        __typename
        id
        name
        defaultDomain
        slug
        published
        currency
        currency_format
        primary_domain {
          id
          name
        }
      }
    }
  }
`

const getStoreScriptsQuery = `
  query getStoreScripts($id: ID!) {
    node(id: $id) {
      ... on Store {
        header_scripts
      }
    }
  }
`

const updateStoreScriptsMutation = `
  mutation updateStoreScripts($id: ID!, $node: StoreUpdateInput!) {
    updateStore(id: $id, node: $node) {
      id
      header_scripts
    }
  }
`

const productsQuery = `
  query getProducts($query: String!, $first: Int, $after: String) {
    products(query: $query, first: $first, after: $after) {
      edges {
        cursor
        node {
          id
          slug
          name: title
          thumbnail {
            path(version: version1)
          }
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
`
